// Package model defines the process-document types returned by the
// compliance API: clusters of near-duplicate regulatory excerpts and the
// filter criteria used to select them.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// FilterCriteria selects process documents. Phase and Role are required
// by the process-details view; the remaining fields are optional and
// omitted from queries when empty.
type FilterCriteria struct {
	Phase    string `json:"phase" yaml:"phase"`
	Role     string `json:"role" yaml:"role"`
	Subject  string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Standard string `json:"standard,omitempty" yaml:"standard,omitempty"`
	Priority string `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// HasRequired reports whether both phase and role are set.
func (f FilterCriteria) HasRequired() bool {
	return f.Phase != "" && f.Role != ""
}

// Values encodes the non-empty criteria as query parameters.
func (f FilterCriteria) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("phase", f.Phase)
	set("role", f.Role)
	set("subject", f.Subject)
	set("category", f.Category)
	set("standard", f.Standard)
	set("priority", f.Priority)
	return v
}

// ClusterID identifies a cluster. The API sends UUID strings, but older
// payloads carry numbers and some omit the field entirely.
type ClusterID string

// UnmarshalJSON accepts a string, a number, or null.
func (id *ClusterID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ClusterID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("cluster_id: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("cluster_id: %w", err)
	}
	*id = ClusterID(n.String())
	return nil
}

// Document is one classified regulatory excerpt.
type Document struct {
	ID            string    `json:"id"`
	Priority      string    `json:"priority"`
	Subject       string    `json:"subject"`
	Category      string    `json:"category"`
	Standard      string    `json:"standard"`
	OriginalText  string    `json:"original_text"`
	ProcessedText string    `json:"processed_text,omitempty"`
	Phase         string    `json:"phase,omitempty"`
	Role          string    `json:"role,omitempty"`
	Status        string    `json:"status,omitempty"`
	ClusterID     ClusterID `json:"cluster_id,omitempty"`
}

// HasProcessedText reports whether the normalized summary is present.
func (d Document) HasProcessedText() bool {
	return d.ProcessedText != ""
}

// DocumentCluster groups near-duplicate documents under one
// representative text.
type DocumentCluster struct {
	ClusterID ClusterID  `json:"cluster_id,omitempty"`
	RepText   string     `json:"rep_text"`
	Documents []Document `json:"documents"`
}

// Matrix holds cluster counts per phase and role: Matrix[phase][role].
type Matrix map[string]map[string]int

// Count returns the count for a cell, zero when absent.
func (m Matrix) Count(phase, role string) int {
	if row, ok := m[phase]; ok {
		return row[role]
	}
	return 0
}

// User is the subset of the /me payload the admin tools consume.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}
