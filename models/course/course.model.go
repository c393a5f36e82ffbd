package course

import "gorm.io/gorm"

// Course represents a learning course. The Total* fields are derived from the
// live Section/Lecture rows and are rebuilt wholesale by coursestats.
type Course struct {
	gorm.Model
	Title                string `json:"title"`
	Description          string `json:"description"`
	Author               string `json:"author"`
	Status               string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	TotalSections        int    `json:"total_sections" gorm:"default:0"`
	TotalLectures        int    `json:"total_lectures" gorm:"default:0"`
	TotalDurationSeconds int64  `json:"total_duration_seconds" gorm:"default:0"`
	IsPublished          bool   `json:"is_published" gorm:"default:false"`
	IsDeleted            bool   `gorm:"default:false"`
}

// Section represents a section/module within a course
type Section struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	OrderIndex    int    `json:"order_index" gorm:"default:0"`
	TotalLectures int    `json:"total_lectures" gorm:"default:0"`
	IsDeleted     bool   `gorm:"default:false"`
}

// Lecture is a single watchable unit inside a section
type Lecture struct {
	gorm.Model
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	SectionID       uint   `json:"section_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	VideoURL        string `json:"video_url"`
	DurationSeconds int64  `json:"duration_seconds" gorm:"default:0"`
	OrderIndex      int    `json:"order_index" gorm:"default:0"`
	IsDeleted       bool   `gorm:"default:false"`
}

// SectionOutline lists the live lecture ids of one section, in order.
type SectionOutline struct {
	SectionID  uint
	Title      string
	LectureIDs []uint
}

// CourseStats holds the derived totals for a course and its sections.
type CourseStats struct {
	CourseID             uint
	TotalSections        int
	TotalLectures        int
	TotalDurationSeconds int64
	SectionLectures      map[uint]int
}
