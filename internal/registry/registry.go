// Package registry holds the static table of partitions (constituencies) and the
// dataset backing each one.
package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-voter-search/config"
	internalErrors "github.com/gcbaptista/go-voter-search/internal/errors"
	"github.com/gcbaptista/go-voter-search/model"
)

// Partition is one selectable constituency.
type Partition struct {
	Label   string          `json:"label"`
	Code    int             `json:"code"`
	Dataset model.DatasetID `json:"-"`
}

// Registry maps partition labels to datasets. It is built once at startup and never mutated.
type Registry struct {
	sorted  []Partition // ascending by code, ties in configuration order
	byLabel map[string]Partition
}

// New builds a registry from configuration entries, in the order given.
// Every problem is a *errors.ConfigurationError: a label whose first token is not an integer,
// an empty label or source, a duplicate label, or a source shared by two labels.
func New(entries []config.PartitionEntry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, internalErrors.NewConfigurationError("", "no partitions configured")
	}

	partitions := make([]Partition, 0, len(entries))
	byLabel := make(map[string]Partition, len(entries))
	bySource := make(map[string]string, len(entries))

	for _, entry := range entries {
		if strings.TrimSpace(entry.Label) == "" {
			return nil, internalErrors.NewConfigurationError("", "partition label cannot be empty")
		}
		if strings.TrimSpace(entry.Source) == "" {
			return nil, internalErrors.NewConfigurationError(entry.Label, "source cannot be empty")
		}
		if _, exists := byLabel[entry.Label]; exists {
			return nil, internalErrors.NewConfigurationError(entry.Label, "duplicate label")
		}
		if other, exists := bySource[entry.Source]; exists {
			return nil, internalErrors.NewConfigurationError(entry.Label,
				fmt.Sprintf("source '%s' is already used by '%s'", entry.Source, other))
		}

		code, err := ParseCode(entry.Label)
		if err != nil {
			return nil, err
		}

		p := Partition{Label: entry.Label, Code: code, Dataset: model.DatasetID(entry.Source)}
		partitions = append(partitions, p)
		byLabel[entry.Label] = p
		bySource[entry.Source] = entry.Label
	}

	sort.SliceStable(partitions, func(i, j int) bool {
		return partitions[i].Code < partitions[j].Code
	})

	return &Registry{sorted: partitions, byLabel: byLabel}, nil
}

// ParseCode returns the integer in the first whitespace-separated token of label.
func ParseCode(label string) (int, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, internalErrors.NewConfigurationError(label, "label has no leading code")
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, internalErrors.NewConfigurationError(label,
			fmt.Sprintf("leading token '%s' is not an integer", fields[0]))
	}
	return code, nil
}

// LabelsSortedByCode returns every label ascending by numeric code.
func (r *Registry) LabelsSortedByCode() []string {
	labels := make([]string, len(r.sorted))
	for i, p := range r.sorted {
		labels[i] = p.Label
	}
	return labels
}

// Partitions returns every partition in the same order as LabelsSortedByCode.
func (r *Registry) Partitions() []Partition {
	out := make([]Partition, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Resolve returns the dataset backing label.
func (r *Registry) Resolve(label string) (model.DatasetID, error) {
	p, ok := r.byLabel[label]
	if !ok {
		return "", internalErrors.NewPartitionNotFoundError(label)
	}
	return p.Dataset, nil
}

// DatasetIDs returns the dataset of every partition, in label order.
func (r *Registry) DatasetIDs() []model.DatasetID {
	ids := make([]model.DatasetID, len(r.sorted))
	for i, p := range r.sorted {
		ids[i] = p.Dataset
	}
	return ids
}

// Len returns the number of partitions.
func (r *Registry) Len() int {
	return len(r.sorted)
}
