package history

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels is a list of all the structs exported here which represent
// tables in the history schema.
var DatabaseModels = []interface{}{
	&Run{},
	&RouteFile{},
}

// Run records one simulator invocation.
type Run struct {
	gorm.Model
	Name        string         `json:"name" gorm:"size:127"`
	Kind        string         `json:"kind" gorm:"size:16"` // static or dynamic
	MotionFile  string         `json:"motionFile" gorm:"size:255"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	RunDuration int            `json:"runDuration"`
	Gain        float64        `json:"gain"`
	StartedAt   time.Time      `json:"startedAt"`
	EndedAt     time.Time      `json:"endedAt"`
	ExitReason  string         `json:"exitReason" gorm:"size:32"`
	Params      datatypes.JSON `json:"params"`
}

func (*Run) TableName() string {
	return "runs"
}

// RouteFile records one generated motion file.
type RouteFile struct {
	gorm.Model
	Path            string         `json:"path" gorm:"size:255"`
	Format          string         `json:"format" gorm:"size:8"`
	Source          string         `json:"source" gorm:"size:16"` // endpoints or gpx
	SampleCount     int            `json:"sampleCount"`
	DurationSeconds float64        `json:"durationSeconds"`
	Frequency       float64        `json:"frequency"`
	SpeedMps        float64        `json:"speedMps"`
	Params          datatypes.JSON `json:"params"`
}

func (*RouteFile) TableName() string {
	return "route_files"
}
