package memory

import (
	"errors"
	"testing"

	"github.com/weaviate/weaviate/entities/models"

	"github.com/finsightai/finsight/internal/core"
)

func TestClassNameFor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"finsight_reports", "FinsightReports"},
		{"reports", "Reports"},
		{"my-collection-2", "MyCollection2"},
		{"Already", "Already"},
	}
	for _, tt := range tests {
		if got := classNameFor(tt.in); got != tt.want {
			t.Errorf("classNameFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckClassConfig(t *testing.T) {
	class := func(dim float64, distance string) *models.Class {
		return &models.Class{
			Class: "FinsightReports",
			VectorIndexConfig: map[string]interface{}{
				"distance":  distance,
				"dimension": dim,
			},
		}
	}

	if err := checkClassConfig(class(1536, "cosine"), 1536, DistanceCosine); err != nil {
		t.Errorf("matching config rejected: %v", err)
	}

	err := checkClassConfig(class(768, "cosine"), 1536, DistanceCosine)
	if !errors.Is(err, core.ErrCollectionMismatch) {
		t.Errorf("dimension mismatch: expected COLLECTION_MISMATCH, got %v", err)
	}

	err = checkClassConfig(class(1536, "l2-squared"), 1536, DistanceCosine)
	if !errors.Is(err, core.ErrCollectionMismatch) {
		t.Errorf("distance mismatch: expected COLLECTION_MISMATCH, got %v", err)
	}
}
