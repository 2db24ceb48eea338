// Command seed bulk-loads catalog fixtures from a directory of CSV files:
// category.csv, genre.csv, titles.csv, genre_title.csv, users.csv,
// review.csv, comments.csv. Rows are inserted in one transaction; numeric
// user ids from the fixtures are remapped to generated UUIDs.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/models"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	dataDir := "static/data"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	logger.Info("Starting fixture import", "dir", dataDir)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := importCategories(tx, filepath.Join(dataDir, "category.csv")); err != nil {
			return err
		}
		if err := importGenres(tx, filepath.Join(dataDir, "genre.csv")); err != nil {
			return err
		}
		if err := importTitles(tx, filepath.Join(dataDir, "titles.csv")); err != nil {
			return err
		}
		if err := importGenreTitle(tx, filepath.Join(dataDir, "genre_title.csv")); err != nil {
			return err
		}
		userIDs, err := importUsers(tx, filepath.Join(dataDir, "users.csv"))
		if err != nil {
			return err
		}
		reviewOK, err := importReviews(tx, filepath.Join(dataDir, "review.csv"), userIDs)
		if err != nil {
			return err
		}
		if reviewOK {
			if err := importComments(tx, filepath.Join(dataDir, "comments.csv"), userIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	logger.Info("Fixture import finished")
}

// readCSV streams rows of a fixture file to fn, skipping the header. Files
// absent from the fixture directory are skipped, not errors.
func readCSV(path string, fn func(record []string) error) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return true, nil
		}
		return false, fmt.Errorf("read header of %s: %w", path, err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, fmt.Errorf("read %s: %w", path, err)
		}
		if err := fn(record); err != nil {
			return false, fmt.Errorf("import %s: %w", path, err)
		}
	}
	return true, nil
}

func parseID(field string) (int64, error) {
	return strconv.ParseInt(field, 10, 64)
}

func parsePubDate(field string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if value, err := time.Parse(layout, field); err == nil {
			return value
		}
	}
	return time.Now()
}

// category.csv: id,name,slug
func importCategories(tx *gorm.DB, path string) error {
	_, err := readCSV(path, func(record []string) error {
		id, err := parseID(record[0])
		if err != nil {
			return err
		}
		return tx.Create(&models.Category{ID: id, Name: record[1], Slug: record[2]}).Error
	})
	return err
}

// genre.csv: id,name,slug
func importGenres(tx *gorm.DB, path string) error {
	_, err := readCSV(path, func(record []string) error {
		id, err := parseID(record[0])
		if err != nil {
			return err
		}
		return tx.Create(&models.Genre{ID: id, Name: record[1], Slug: record[2]}).Error
	})
	return err
}

// titles.csv: id,name,year,category
func importTitles(tx *gorm.DB, path string) error {
	_, err := readCSV(path, func(record []string) error {
		id, err := parseID(record[0])
		if err != nil {
			return err
		}
		year, err := strconv.Atoi(record[2])
		if err != nil {
			return err
		}
		categoryID, err := parseID(record[3])
		if err != nil {
			return err
		}
		return tx.Create(&models.Title{ID: id, Name: record[1], Year: year, CategoryID: categoryID}).Error
	})
	return err
}

// genre_title.csv: id,title_id,genre_id
func importGenreTitle(tx *gorm.DB, path string) error {
	_, err := readCSV(path, func(record []string) error {
		titleID, err := parseID(record[1])
		if err != nil {
			return err
		}
		genreID, err := parseID(record[2])
		if err != nil {
			return err
		}
		return tx.Exec("INSERT INTO genre_title (title_id, genre_id) VALUES (?, ?)", titleID, genreID).Error
	})
	return err
}

// users.csv: id,username,email,role,bio,first_name,last_name
// Returns a map from fixture id to the generated UUID.
func importUsers(tx *gorm.DB, path string) (map[string]string, error) {
	userIDs := make(map[string]string)
	_, err := readCSV(path, func(record []string) error {
		user := &models.User{
			Username:  record[1],
			Email:     record[2],
			Role:      record[3],
			Bio:       record[4],
			FirstName: record[5],
			LastName:  record[6],
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		userIDs[record[0]] = user.ID
		return nil
	})
	return userIDs, err
}

// review.csv: id,title_id,text,author,score,pub_date
func importReviews(tx *gorm.DB, path string, userIDs map[string]string) (bool, error) {
	return readCSV(path, func(record []string) error {
		id, err := parseID(record[0])
		if err != nil {
			return err
		}
		titleID, err := parseID(record[1])
		if err != nil {
			return err
		}
		score, err := strconv.Atoi(record[4])
		if err != nil {
			return err
		}
		authorID, ok := userIDs[record[3]]
		if !ok {
			return fmt.Errorf("unknown review author id %s", record[3])
		}
		return tx.Create(&models.Review{
			ID:       id,
			TitleID:  titleID,
			Text:     record[2],
			AuthorID: authorID,
			Score:    score,
			PubDate:  parsePubDate(record[5]),
		}).Error
	})
}

// comments.csv: id,review_id,text,author,pub_date
func importComments(tx *gorm.DB, path string, userIDs map[string]string) error {
	_, err := readCSV(path, func(record []string) error {
		id, err := parseID(record[0])
		if err != nil {
			return err
		}
		reviewID, err := parseID(record[1])
		if err != nil {
			return err
		}
		authorID, ok := userIDs[record[3]]
		if !ok {
			return fmt.Errorf("unknown comment author id %s", record[3])
		}
		return tx.Create(&models.Comment{
			ID:       id,
			ReviewID: reviewID,
			Text:     record[2],
			AuthorID: authorID,
			PubDate:  parsePubDate(record[4]),
		}).Error
	})
	return err
}
