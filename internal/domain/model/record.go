// Package model contains the training data shapes passed between layers.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// TrainingRecord is one labeled memo.
type TrainingRecord struct {
	Content        string `db:"content" yaml:"content"`
	Classification string `db:"classification" yaml:"classification"`
}

// Dataset holds the content and classification columns side by side.
// Row i of the dataset is (Content[i], Classification[i]).
type Dataset struct {
	Content        []string `yaml:"content"`
	Classification []string `yaml:"classification"`
}

// FromRecords splits records into the two parallel columns.
func FromRecords(records []TrainingRecord) Dataset {
	ds := Dataset{
		Content:        make([]string, len(records)),
		Classification: make([]string, len(records)),
	}
	for i, r := range records {
		ds.Content[i] = r.Content
		ds.Classification[i] = r.Classification
	}
	return ds
}

// Len returns the number of content entries.
func (d Dataset) Len() int {
	return len(d.Content)
}

// Validate checks the column invariant and that there is something to train on.
func (d Dataset) Validate() error {
	if len(d.Content) != len(d.Classification) {
		return fmt.Errorf("%w: %d content entries, %d classifications",
			ErrLengthMismatch, len(d.Content), len(d.Classification))
	}
	if len(d.Content) == 0 {
		return ErrEmptyDataset
	}
	return nil
}

// Usable drops rows whose content or label is blank and reports how many
// were dropped. The receiver must satisfy Validate's length check.
func (d Dataset) Usable() (Dataset, int) {
	out := Dataset{
		Content:        make([]string, 0, len(d.Content)),
		Classification: make([]string, 0, len(d.Classification)),
	}
	for i := range d.Content {
		label := strings.TrimSpace(d.Classification[i])
		if strings.TrimSpace(d.Content[i]) == "" || label == "" {
			continue
		}
		out.Content = append(out.Content, d.Content[i])
		out.Classification = append(out.Classification, label)
	}
	return out, len(d.Content) - len(out.Content)
}

// Labels returns the distinct classifications in sorted order.
func (d Dataset) Labels() []string {
	seen := make(map[string]struct{}, len(d.Classification))
	labels := make([]string, 0)
	for _, c := range d.Classification {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		labels = append(labels, c)
	}
	sort.Strings(labels)
	return labels
}
