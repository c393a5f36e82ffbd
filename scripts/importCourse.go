package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"coursetrack/config"
	"coursetrack/database"
	"coursetrack/logger"
	courseModels "coursetrack/models/course"
	"coursetrack/services/coursestats"
)

// outlineSection is one section read from the outline CSV, lectures in file order.
type outlineSection struct {
	Title    string
	Lectures []courseModels.Lecture
}

func main() {
	file := flag.String("file", "outline.csv", "CSV with columns section,lecture,duration_seconds,video_url")
	title := flag.String("title", "", "course title")
	author := flag.String("author", "", "course author")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	log, err := logger.New(config.AppConfig.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if strings.TrimSpace(*title) == "" {
		log.Fatal("missing -title")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal("failed to open CSV file", "file", *file, "error", err)
	}
	defer f.Close()

	sections, skipped, err := parseOutline(f)
	if err != nil {
		log.Fatal("failed to read CSV", "error", err)
	}
	if len(sections) == 0 {
		log.Fatal("CSV file is empty or has only headers")
	}

	database.ConnectDb()
	catalog := database.NewCatalogStore(database.Database.Db)
	stats := coursestats.NewAggregator(catalog, log)

	course, err := importOutline(context.Background(), catalog, stats, *title, *author, sections)
	if err != nil {
		log.Fatal("import failed", "error", err)
	}

	log.Info("import complete",
		"course_id", course.ID,
		"sections", course.TotalSections,
		"lectures", course.TotalLectures,
		"duration_seconds", course.TotalDurationSeconds,
		"skipped_rows", skipped)
}

// parseOutline groups CSV rows into sections in order of first appearance.
// Rows without a section or lecture title are skipped and counted.
func parseOutline(r io.Reader) ([]outlineSection, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if len(records) < 2 {
		return nil, 0, nil
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var sections []outlineSection
	bySection := make(map[string]int)
	skipped := 0
	for _, row := range records[1:] {
		sectionTitle := getField(row, headerIndex, "section")
		lectureTitle := getField(row, headerIndex, "lecture")
		if sectionTitle == "" || lectureTitle == "" {
			skipped++
			continue
		}

		i, ok := bySection[sectionTitle]
		if !ok {
			i = len(sections)
			bySection[sectionTitle] = i
			sections = append(sections, outlineSection{Title: sectionTitle})
		}
		sections[i].Lectures = append(sections[i].Lectures, courseModels.Lecture{
			Title:           lectureTitle,
			DurationSeconds: parseInt64(getField(row, headerIndex, "duration_seconds")),
			VideoURL:        getField(row, headerIndex, "video_url"),
			OrderIndex:      len(sections[i].Lectures),
		})
	}
	return sections, skipped, nil
}

// importOutline creates a draft course with its sections and lectures and
// rebuilds the course totals.
func importOutline(ctx context.Context, catalog *database.CatalogStore, stats *coursestats.Aggregator, title, author string, sections []outlineSection) (*courseModels.Course, error) {
	course := &courseModels.Course{Title: title, Author: author, Status: "DRAFT"}
	if err := catalog.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	for i, s := range sections {
		section := &courseModels.Section{CourseID: course.ID, Title: s.Title, OrderIndex: i}
		if err := catalog.CreateSection(ctx, section); err != nil {
			return nil, fmt.Errorf("create section %q: %w", s.Title, err)
		}
		for _, l := range s.Lectures {
			lecture := l
			lecture.SectionID = section.ID
			if err := catalog.CreateLecture(ctx, &lecture); err != nil {
				return nil, fmt.Errorf("create lecture %q: %w", l.Title, err)
			}
		}
	}

	if _, err := stats.Recompute(ctx, course.ID); err != nil {
		return nil, err
	}
	return catalog.Course(ctx, course.ID)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseInt64 converts string to int64, treating bad input as zero
func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil || val < 0 {
		return 0
	}
	return val
}
