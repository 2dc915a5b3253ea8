package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (GeoPoint) GormDataType() string {
	return "text"
}

func (g GeoPoint) Value() (driver.Value, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (g *GeoPoint) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*g = GeoPoint{}
		return nil
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	}
	return fmt.Errorf("cannot scan %T into GeoPoint", src)
}

func (g GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", g.Latitude, g.Longitude)
}

// AttendanceRecord is written by the clock-in client and only read here.
type AttendanceRecord struct {
	ID            string     `gorm:"primaryKey;column:id;size:64" db:"id" json:"id"`
	UserID        string     `gorm:"column:user_id;size:64;not null;index" db:"user_id" json:"userId"`
	Date          string     `gorm:"size:10;not null;index" db:"date" json:"date"`
	StartTime     *time.Time `db:"start_time" json:"startTime"`
	EndTime       *time.Time `db:"end_time" json:"endTime"`
	StartLocation *GeoPoint  `gorm:"type:text" db:"start_location" json:"startLocation,omitempty"`
	EndLocation   *GeoPoint  `gorm:"type:text" db:"end_location" json:"endLocation,omitempty"`
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false" db:"updated_at" json:"updatedAt,omitempty"`
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}
