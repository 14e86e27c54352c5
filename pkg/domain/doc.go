/*
Package domain contains the core models and pure scoring logic of the tds pipeline.

It defines the questionnaire, the two-axis coordinate, the sixteen zone codes and the
records the pipeline produces. This package is kept pure and free of I/O, so every
function here is deterministic and safe for concurrent use.

# Key Entities

  - Question: One Likert item, bound to the Structure (S) or Relational (R) dimension.
  - Coordinate: The (S, R) pair, each averaged and clamped to [0, 4].
  - ZoneCode: One of A1..D4 (letter = structure band, digit = relational band).
  - ZoneRecord: Catalog metadata describing a zone.
  - FocusPersona: An optional role overlay blended into the generated prompt.
  - Result: The immutable output of one pipeline invocation.
*/
package domain
