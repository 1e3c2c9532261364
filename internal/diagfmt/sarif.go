package diagfmt

import (
	"encoding/json"
	"io"

	"mapfold/internal/diag"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID string `json:"id"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// колонки SARIF 1-based, endColumn не включается
type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Sarif форматирует ошибки в SARIF формат (v2.1.0)
func Sarif(w io.Writer, errs []*diag.TranslatedError, meta SarifRunMeta) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion}},
		Results: make([]sarifResult, 0, len(errs)),
	}
	ruleIdx := make(map[string]int)
	failed := false
	for _, e := range errs {
		if e == nil {
			continue
		}
		idx, ok := ruleIdx[e.Code]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			ruleIdx[e.Code] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{ID: e.Code})
		}
		if e.Severity == diag.SevError {
			failed = true
		}
		res := sarifResult{
			RuleID:    e.Code,
			RuleIndex: idx,
			Level:     sarifLevel(e.Severity),
			Message:   sarifMessage{Text: e.Text},
		}
		if uri := displayPath(e, PathModeAuto); uri != "" {
			phys := sarifPhysical{ArtifactLocation: sarifArtifact{URI: uri}}
			if e.StartPosition != nil {
				phys.Region = &sarifRegion{
					StartLine:   e.StartPosition.Line + 1,
					StartColumn: e.StartPosition.Character + 1,
				}
				if e.EndPosition != nil {
					phys.Region.EndLine = e.EndPosition.Line + 1
					phys.Region.EndColumn = e.EndPosition.Character + 2
				}
			}
			res.Locations = []sarifLocation{{PhysicalLocation: phys}}
		}
		run.Results = append(run.Results, res)
	}
	if meta.InvocationArgs != nil {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !failed}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}
