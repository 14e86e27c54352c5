/*
Package tds scores a short self-assessment questionnaire on two axes, Structure (S)
and Relational warmth (R), classifies the result into one of sixteen communication
zones and synthesizes a prompt that tells an AI collaborator how to talk to the user.

# Concept

Each question contributes to one axis. The mean of each axis is clamped to [0, 4] and
cut into four bands, giving zone codes A1 through D4. Zone and focus persona catalogs
are loaded from pluggable sources (embedded defaults, files, HTTP or a Loam
repository) and are never trusted: malformed entries are dropped and missing zones are
synthesized, so every evaluation yields a complete result.

The Engine holds no per-user state. Evaluate returns a Result value; persisting it, and
the in-progress answers of an interrupted quiz, is delegated to the stores in
pkg/ports.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/tds"
		"github.com/aretw0/tds/pkg/domain"
	)

	func main() {
		eng, err := tds.New()
		if err != nil {
			log.Fatal(err)
		}

		answers := domain.Answers{
			"q1": 5, "q2": 2, "q3": 4, "q4": 1,
			"q5": 5, "q6": 2, "q7": 4, "q8": 1,
		}
		result, err := eng.Evaluate(context.Background(), answers, "writing-coach")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(result.Zone.Code, result.Prompt)
	}
*/
package tds
