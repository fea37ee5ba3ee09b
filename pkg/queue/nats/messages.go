package nats

import (
	"encoding/json"
	"time"
)

// SubjectModelUpdated announces a completed training run.
const SubjectModelUpdated = "regime.model.updated"

// ModelUpdatedMsg carries enough run metadata for consumers to decide
// whether the artifacts they hold are stale and where to reload from.
type ModelUpdatedMsg struct {
	TrainedAt    time.Time      `json:"trained_at"`
	Clusters     int            `json:"clusters"`
	LabeledRows  int            `json:"labeled_rows"`
	FeatureNames []string       `json:"feature_names"`
	ArtifactDir  string         `json:"artifact_dir"`
	Patterns     map[int]string `json:"patterns"` // cluster id -> pattern id
	Silhouette   float64        `json:"silhouette"`
}

// Encode serializes a message to JSON bytes.
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeModelUpdated deserializes a ModelUpdatedMsg from JSON bytes.
func DecodeModelUpdated(data []byte) (*ModelUpdatedMsg, error) {
	var msg ModelUpdatedMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
