// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package generator

import (
	"fmt"
	"strings"

	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
)

// The master template drives the initial generation. The numbered "### N."
// heading instruction is load-bearing: the section parser and the premium
// redaction both key off that exact shape, and the module display names must
// appear verbatim in the headings.
const masterPromptTemplate = `You are generating a complete technical specification document for a software product.

Product idea:
%s

Produce one markdown document containing exactly the following sections, in order. Each section MUST begin with a third-level heading of the form "### <number>. <section name>", numbered sequentially from 1, using each section name exactly as written below:

%s

Write thorough, concrete, implementation-ready content under every heading. Do not add sections beyond those listed. Do not wrap the document in code fences.`

func buildMasterPrompt(ideaText string, modules []datatypes.Module) string {
	var names strings.Builder
	for i, m := range modules {
		fmt.Fprintf(&names, "%d. %s\n", i+1, m.Name)
	}
	return fmt.Sprintf(masterPromptTemplate, ideaText, strings.TrimRight(names.String(), "\n"))
}

const elaboratePromptTemplate = `You are answering a question about one section of a technical specification.

Section content:
%s

Question:
%s

Answer in concise markdown. Answer only from the section content above; say so explicitly if the section does not cover the question.`

func buildElaboratePrompt(sectionContent, question string) string {
	return fmt.Sprintf(elaboratePromptTemplate, sectionContent, question)
}

const regeneratePromptTemplate = `You are rewriting exactly one section of a technical specification document.

The section currently reads:
%s

Rewrite instructions:
%s

Return ONLY the rewritten section. The first line of your response MUST be exactly this heading line, unchanged:
%s

Do not return any other sections and do not wrap the response in code fences.`

func buildRegeneratePrompt(headingLine, originalContent, instructions string) string {
	return fmt.Sprintf(regeneratePromptTemplate, originalContent, instructions, headingLine)
}

const analyzePromptTemplate = `You are reviewing a technical specification document for gaps and improvements.

Document:
%s

Respond with a markdown review. For each concrete improvement tied to a specific section, emit one line of the form:
- [<exact section title>] <one-sentence suggestion>

The section title inside the brackets must be copied exactly from the document's headings (without the "###" marker). You may also repeat section headings as "### <number>. <title>" lines to group suggestions, and add short free-text commentary lines.`

func buildAnalyzePrompt(document string) string {
	return fmt.Sprintf(analyzePromptTemplate, document)
}
