// Copyright (C) 2025 SpecForge (fpinheiro921@gmail.com)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package generator orchestrates the AI backend calls that produce and
// refine specification documents: streaming initial generation, one-shot
// section regeneration and elaboration, and document analysis.
//
// The package owns prompt construction and response post-processing. Quota
// admission and debiting are the caller's concern; the generator never
// touches the ledger.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/fpinheiro921/specforge/services/llm"
	"github.com/fpinheiro921/specforge/services/specforge/datatypes"
	"github.com/fpinheiro921/specforge/services/specforge/markdown"
)

// PremiumPlaceholder replaces the body of a premium section for free-tier
// callers. The heading line above it stays intact.
const PremiumPlaceholder = "_This premium section is available on paid plans. Upgrade to unlock its full content._"

// ErrEmptyResponse is returned by the one-shot operations when the backend
// produces no usable text. Streaming generation deliberately does NOT use
// it; an empty generated document is a warning, not a failure.
var ErrEmptyResponse = errors.New("AI backend returned an empty response")

// Generator drives all AI-backed document operations.
type Generator struct {
	llm    llm.LLMClient
	logger *slog.Logger
	params llm.GenerationParams
}

// New creates a Generator over an LLM backend.
func New(client llm.LLMClient, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: client, logger: logger}
}

// Generate streams a full specification document for a product idea.
//
// # Description
//
// Interpolates the idea and the selected modules into the master prompt,
// opens a streaming request, and forwards every chunk to onChunk while
// accumulating the full text. A blank accumulated document is logged as a
// warning and returned successfully; transport errors fail the call.
//
// For metered plans, premium module sections have their bodies replaced by
// PremiumPlaceholder before the document is returned, so free-tier callers
// never hold the withheld content.
//
// # Limitations
//
//   - onChunk receives raw backend chunks; redaction happens only on the
//     final document, after the stream completes.
func (g *Generator) Generate(ctx context.Context, ideaText string, modules []datatypes.Module, plan datatypes.Plan, onChunk func(string) error) (string, error) {
	prompt := buildMasterPrompt(ideaText, modules)

	var accum strings.Builder
	err := g.llm.GenerateStream(ctx, prompt, g.params, func(chunk string) error {
		accum.WriteString(chunk)
		if onChunk != nil {
			return onChunk(chunk)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generation stream failed: %w", err)
	}

	document := accum.String()
	if strings.TrimSpace(document) == "" {
		g.logger.Warn("generation stream completed with empty document", "idea_length", len(ideaText))
		return document, nil
	}

	if plan.Metered() {
		document = RedactPremium(document, modules)
	}
	return document, nil
}

// Elaborate answers a question scoped to one section's content. A blank
// backend response is a hard error.
func (g *Generator) Elaborate(ctx context.Context, sectionContent, question string) (string, error) {
	resp, err := g.llm.Generate(ctx, buildElaboratePrompt(sectionContent, question), g.params)
	if err != nil {
		return "", fmt.Errorf("elaboration failed: %w", err)
	}
	if strings.TrimSpace(resp) == "" {
		return "", ErrEmptyResponse
	}
	return resp, nil
}

// Regenerate rewrites one section under instructions.
//
// The returned content always begins with the section's exact original
// heading line. A backend response that starts with the right heading
// passes through unchanged; otherwise any heading-shaped first line the
// backend produced is dropped and the correct heading is prepended. The
// backend's self-reported heading is never trusted.
func (g *Generator) Regenerate(ctx context.Context, sectionTitle, originalContent, instructions string) (string, error) {
	headingLine := "### " + sectionTitle

	resp, err := g.llm.Generate(ctx, buildRegeneratePrompt(headingLine, originalContent, instructions), g.params)
	if err != nil {
		return "", fmt.Errorf("section regeneration failed: %w", err)
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", ErrEmptyResponse
	}

	firstLine, rest, _ := strings.Cut(resp, "\n")
	if strings.TrimSpace(firstLine) == headingLine {
		return resp, nil
	}

	g.logger.Warn("backend altered the section heading; repairing", "expected", headingLine, "got", firstLine)
	if strings.HasPrefix(firstLine, "#") {
		// Drop the bogus heading; keep its body.
		resp = strings.TrimSpace(rest)
	}
	if resp == "" {
		return headingLine, nil
	}
	return headingLine + "\n" + resp, nil
}

// Analyze runs a one-shot review of the document and parses the response
// into analysis items resolved against the given sections.
func (g *Generator) Analyze(ctx context.Context, document string, sections []datatypes.Section) ([]datatypes.AnalysisItem, error) {
	resp, err := g.llm.Generate(ctx, buildAnalyzePrompt(document), g.params)
	if err != nil {
		return nil, fmt.Errorf("document analysis failed: %w", err)
	}
	if strings.TrimSpace(resp) == "" {
		return nil, ErrEmptyResponse
	}
	return parseAnalysis(resp, sections), nil
}

// RedactPremium replaces the body of every premium module's section with
// PremiumPlaceholder, leaving the heading line intact.
//
// Matching is heading-anchored: a section is premium when its heading line
// matches "### <n>. <module name>" with the module's display name taken as
// a literal. A section runs from its heading to the next numbered heading
// or document end. Text before the first heading is never redacted.
func RedactPremium(document string, modules []datatypes.Module) string {
	var premium []*regexp.Regexp
	for _, m := range modules {
		if m.Premium {
			premium = append(premium, regexp.MustCompile(`^### \d+\.\s*`+regexp.QuoteMeta(m.Name)+`\s*$`))
		}
	}
	if len(premium) == 0 {
		return document
	}

	matches := markdown.HeadingPattern().FindAllStringIndex(document, -1)
	if len(matches) == 0 {
		return document
	}

	var out strings.Builder
	out.WriteString(document[:matches[0][0]])
	for i, m := range matches {
		end := len(document)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		headingLine := document[m[0]:m[1]]

		redact := false
		for _, re := range premium {
			if re.MatchString(headingLine) {
				redact = true
				break
			}
		}
		if redact {
			out.WriteString(headingLine)
			out.WriteString("\n\n" + PremiumPlaceholder + "\n\n")
		} else {
			out.WriteString(document[m[0]:end])
		}
	}
	return out.String()
}
