package grok

import (
	"encoding/json"
	"regexp"
	"strings"

	"chemjobs/internal/domain/job"
)

var (
	fenceRe     = regexp.MustCompile("```json\n?|\n?```")
	jsonArrayRe = regexp.MustCompile(`\[[\s\S]*\]`)
)

// wireJob is the record shape the model is asked for. matchScore arrives as a
// JSON number and may be absent or out of range.
type wireJob struct {
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Location   string   `json:"location"`
	Type       string   `json:"type"`
	Link       string   `json:"link"`
	Reasoning  string   `json:"reasoning"`
	MatchScore *float64 `json:"matchScore"`
}

// ParseJobs extracts job records from raw model output. Models wrap the JSON
// in markdown fences, emit either {"jobs": [...]} or a bare array, and
// sometimes surround the array with prose, so parsing tries each form in turn.
// Unparseable output yields an empty slice, never an error: a garbled response
// is treated the same as zero results.
func ParseJobs(content string) []job.Record {
	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(content, ""))
	if cleaned == "" {
		return nil
	}

	var envelope struct {
		Jobs []wireJob `json:"jobs"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err == nil && envelope.Jobs != nil {
		return toRecords(envelope.Jobs)
	}

	var bare []wireJob
	if err := json.Unmarshal([]byte(cleaned), &bare); err == nil {
		return toRecords(bare)
	}

	if m := jsonArrayRe.FindString(cleaned); m != "" {
		if err := json.Unmarshal([]byte(m), &bare); err == nil {
			return toRecords(bare)
		}
	}
	return nil
}

func toRecords(wire []wireJob) []job.Record {
	out := make([]job.Record, 0, len(wire))
	for _, w := range wire {
		out = append(out, job.Record{
			Title:      strings.TrimSpace(w.Title),
			Company:    strings.TrimSpace(w.Company),
			Location:   strings.TrimSpace(w.Location),
			Type:       strings.TrimSpace(w.Type),
			Link:       strings.TrimSpace(w.Link),
			Reasoning:  strings.TrimSpace(w.Reasoning),
			MatchScore: clampScore(w.MatchScore),
		})
	}
	return out
}

// clampScore folds the model's score into [0, 100]; absent scores stay nil.
func clampScore(s *float64) *int {
	if s == nil {
		return nil
	}
	v := int(*s)
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}
