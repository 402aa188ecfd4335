package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"learnsphere/config"
	"learnsphere/database"
	"learnsphere/services/learning"
)

// questionRow is one parsed CSV line.
type questionRow struct {
	Line     int
	LessonID uint
	Input    learning.QuestionInput
}

func main() {
	path := flag.String("file", "QuizQuestions.csv", "CSV with lesson_id,question_text,options,correct_answer,points,order_index")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	rows, err := parseQuestions(file)
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	log.Printf("Total rows to import: %d", len(rows))

	svc := learning.New(database.Database.Db)
	inserted, skipped := importQuestions(context.Background(), svc, rows)
	log.Printf("Import completed: %d inserted, %d skipped", inserted, skipped)
}

// parseQuestions reads the header row and maps every later row onto a
// QuestionInput. Options are separated by "|".
func parseQuestions(r io.Reader) ([]questionRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"lesson_id", "question_text", "options", "correct_answer"} {
		if _, ok := headerIndex[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	rows := make([]questionRow, 0, len(records)-1)
	for i, record := range records[1:] {
		line := i + 2
		lessonID, err := strconv.ParseUint(getField(record, headerIndex, "lesson_id"), 10, 32)
		if err != nil || lessonID == 0 {
			return nil, fmt.Errorf("line %d: invalid lesson_id", line)
		}

		var options []string
		for _, o := range strings.Split(getField(record, headerIndex, "options"), "|") {
			if o = strings.TrimSpace(o); o != "" {
				options = append(options, o)
			}
		}

		points := 1
		if raw := getField(record, headerIndex, "points"); raw != "" {
			if points, err = strconv.Atoi(raw); err != nil {
				return nil, fmt.Errorf("line %d: invalid points %q", line, raw)
			}
		}
		order := 0
		if raw := getField(record, headerIndex, "order_index"); raw != "" {
			if order, err = strconv.Atoi(raw); err != nil {
				return nil, fmt.Errorf("line %d: invalid order_index %q", line, raw)
			}
		}

		rows = append(rows, questionRow{
			Line:     line,
			LessonID: uint(lessonID),
			Input: learning.QuestionInput{
				QuestionText:  getField(record, headerIndex, "question_text"),
				Options:       options,
				CorrectAnswer: getField(record, headerIndex, "correct_answer"),
				Points:        points,
				OrderIndex:    order,
			},
		})
	}
	return rows, nil
}

// importQuestions adds each row through the service so the same validation
// applies as in the admin API. Bad rows are logged and skipped.
func importQuestions(ctx context.Context, svc *learning.Service, rows []questionRow) (inserted, skipped int) {
	for _, row := range rows {
		if _, err := svc.AddQuestion(ctx, row.LessonID, row.Input); err != nil {
			log.Printf("Skipping line %d (lesson %d): %v", row.Line, row.LessonID, err)
			skipped++
			continue
		}
		inserted++
	}
	return inserted, skipped
}

func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
