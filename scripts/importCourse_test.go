package main

import (
	"context"
	"strings"
	"testing"

	"coursetrack/database"
	"coursetrack/database/testutil"
	"coursetrack/logger"
	"coursetrack/services/coursestats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const outlineCSV = `section,lecture,duration_seconds,video_url
Basics,Hello,120,https://v/1
Basics,Types,300,https://v/2
Concurrency,Goroutines,600,
,orphan,10,
Basics,Errors,bad,
`

func TestParseOutlineGroupsBySection(t *testing.T) {
	sections, skipped, err := parseOutline(strings.NewReader(outlineCSV))
	require.NoError(t, err)

	assert.Equal(t, 1, skipped)
	require.Len(t, sections, 2)
	assert.Equal(t, "Basics", sections[0].Title)
	require.Len(t, sections[0].Lectures, 3)
	assert.Equal(t, int64(300), sections[0].Lectures[1].DurationSeconds)
	assert.Equal(t, int64(0), sections[0].Lectures[2].DurationSeconds)
	assert.Equal(t, 2, sections[0].Lectures[2].OrderIndex)
}

func TestImportOutlineBuildsCourse(t *testing.T) {
	db := testutil.DB(t)
	catalog := database.NewCatalogStore(db)
	stats := coursestats.NewAggregator(catalog, logger.Nop())

	sections, _, err := parseOutline(strings.NewReader(outlineCSV))
	require.NoError(t, err)

	course, err := importOutline(context.Background(), catalog, stats, "Go 101", "Gopher", sections)
	require.NoError(t, err)
	assert.Equal(t, 2, course.TotalSections)
	assert.Equal(t, 4, course.TotalLectures)
	assert.Equal(t, int64(1020), course.TotalDurationSeconds)
	assert.Equal(t, "DRAFT", course.Status)
}
