// bundle-help compiles a directory of markdown reference pages into the
// sqlite database the help pane loads at startup. Each page may carry YAML
// front matter naming its topic and title; pages without it fall back to the
// file name and first heading.
//
//	go build ./cmd/bundle-help
//	./bundle-help -src ./helpsrc -o latex-help.db
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header of a help page
type frontMatter struct {
	Topic string `yaml:"topic"`
	Title string `yaml:"title"`
}

type helpPage struct {
	topic   string
	title   string
	content string
}

func main() {
	output := flag.String("o", "latex-help.db", "output database path")
	src := flag.String("src", "helpsrc", "directory of markdown help pages")
	flag.Parse()

	var pages []helpPage
	err := filepath.WalkDir(*src, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".md") {
			return err
		}
		page, err := loadPage(path)
		if err != nil {
			log.Printf("warning: %s: %v", path, err)
			return nil
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	if len(pages) == 0 {
		log.Fatalf("no markdown pages under %s", *src)
	}
	fmt.Fprintf(os.Stderr, "Found %d help pages\n", len(pages))

	os.Remove(*output)
	db, err := sql.Open("sqlite3", *output)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE topics (
			topic TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL
		);
	`); err != nil {
		log.Fatal(err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatal(err)
	}
	ins, err := tx.Prepare("INSERT OR IGNORE INTO topics (topic, title, content) VALUES (?, ?, ?)")
	if err != nil {
		log.Fatal(err)
	}
	for _, p := range pages {
		if _, err := ins.Exec(p.topic, p.title, p.content); err != nil {
			log.Printf("insert %s: %v", p.topic, err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Fatal(err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s\n", *output)
}

func loadPage(path string) (helpPage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return helpPage{}, err
	}

	fm, body := splitFrontMatter(string(raw))

	var meta frontMatter
	if fm != "" {
		if err := yaml.Unmarshal([]byte(fm), &meta); err != nil {
			return helpPage{}, fmt.Errorf("front matter: %w", err)
		}
	}
	if meta.Topic == "" {
		meta.Topic = strings.TrimSuffix(filepath.Base(path), ".md")
	}
	if meta.Title == "" {
		meta.Title = firstHeading(body)
	}
	if meta.Title == "" {
		meta.Title = meta.Topic
	}

	return helpPage{topic: meta.Topic, title: meta.Title, content: body}, nil
}

// splitFrontMatter returns the YAML header (without delimiters) and the
// remaining markdown. Pages without a --- header return ("", whole file).
func splitFrontMatter(s string) (string, string) {
	if !strings.HasPrefix(s, "---\n") {
		return "", s
	}
	rest := s[4:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return "", s
	}
	body := rest[end+4:]
	body = strings.TrimPrefix(body, "\n")
	return rest[:end], body
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}
