package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/wordspeak/internal"
)

// fieldSeparator joins note fields in the notes table
const fieldSeparator = "\x1f"

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName string
	deckID   int64
	modelID  int64
	cards    []Card
	media    map[string]int // media file name -> numbered entry in the package
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName: deckName,
		deckID:   now,
		modelID:  now + 1,
		media:    make(map[string]int),
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG writes the package: a SQLite collection, the numbered media
// files and the media index, zipped together.
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	buildDir, err := os.MkdirTemp("", "wordspeak_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(buildDir)

	// Media first, the notes refer to the collected names
	if err := g.collectMedia(buildDir); err != nil {
		return fmt.Errorf("failed to copy media files: %w", err)
	}

	if err := g.writeMediaIndex(buildDir); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}

	if err := g.createDatabase(filepath.Join(buildDir, "collection.anki2")); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := zipDirectory(buildDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}

	return nil
}

// collectMedia copies each distinct audio file into dir under its number.
// Cached audio names are content addressed, so equal names mean equal files.
func (g *APKGGenerator) collectMedia(dir string) error {
	for _, card := range g.cards {
		if card.AudioFile == "" || !fileExists(card.AudioFile) {
			continue
		}

		name := filepath.Base(card.AudioFile)
		if _, ok := g.media[name]; ok {
			continue
		}

		n := len(g.media)
		if err := copyFile(card.AudioFile, filepath.Join(dir, strconv.Itoa(n))); err != nil {
			return fmt.Errorf("failed to copy audio file %s: %w", card.AudioFile, err)
		}
		g.media[name] = n
	}
	return nil
}

// writeMediaIndex writes the "media" file mapping numbers to names
func (g *APKGGenerator) writeMediaIndex(dir string) error {
	index := make(map[string]string, len(g.media))
	for name, n := range g.media {
		index[strconv.Itoa(n)] = name
	}

	data, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "media"), data, 0644)
}

// createDatabase creates the Anki SQLite collection
func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	if err := g.insertCollection(tx); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	if err := g.insertNotes(tx); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}

	return tx.Commit()
}

// schema is the subset of the Anki 2.1 collection layout importers need
var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
}

// deck returns the JSON description of a deck
func deck(id int64, name, desc string, now int64) map[string]interface{} {
	return map[string]interface{}{
		"id":        id,
		"name":      name,
		"desc":      desc,
		"mod":       now,
		"usn":       0,
		"dyn":       0,
		"conf":      1,
		"collapsed": false,
		"newToday":  []int{0, 0},
		"revToday":  []int{0, 0},
		"lrnToday":  []int{0, 0},
		"timeToday": []int{0, 0},
	}
}

// insertCollection inserts the collection row holding decks and note type
func (g *APKGGenerator) insertCollection(tx *sql.Tx) error {
	now := time.Now().Unix()

	decks := map[string]interface{}{
		"1":                              deck(1, "Default", "", now),
		strconv.FormatInt(g.deckID, 10): deck(g.deckID, g.deckName, "English vocabulary with pronunciation, exported by wordspeak", now),
	}
	models := map[string]interface{}{
		strconv.FormatInt(g.modelID, 10): g.noteType(now),
	}
	conf := map[string]interface{}{
		"nextPos":  1,
		"curDeck":  1,
		"curModel": strconv.FormatInt(g.modelID, 10),
		"schedVer": 1,
		"sortType": "noteFld",
	}
	dconf := map[string]interface{}{
		"1": map[string]interface{}{
			"id":       1,
			"name":     "Default",
			"mod":      now,
			"autoplay": true,
			"replayq":  true,
			"new":      map[string]interface{}{"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500, "perDay": 20, "order": 1},
			"lapse":    map[string]interface{}{"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0},
			"rev":      map[string]interface{}{"perDay": 100, "ease4": 1.3, "maxIvl": 36500, "ivlFct": 1},
		},
	}

	encoded := make([]string, 0, 4)
	for _, v := range []interface{}{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded = append(encoded, string(data))
	}

	_, err := tx.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1,        // id
		now,      // crt
		now*1000, // mod
		now*1000, // scm
		11,       // ver (schema version)
		0,        // dty
		0,        // usn
		0,        // ls
		encoded[0], encoded[1], encoded[2], encoded[3],
		"{}", // tags
	)
	return err
}

// noteType describes the English/Korean/Audio note with a listening card
// and a recall card
func (g *APKGGenerator) noteType(now int64) map[string]interface{} {
	field := func(name string, ord int) map[string]interface{} {
		return map[string]interface{}{"name": name, "ord": ord, "sticky": false, "rtl": false, "font": "Arial", "size": 20, "media": []string{}}
	}
	template := func(name string, ord int, qfmt, afmt string) map[string]interface{} {
		return map[string]interface{}{"name": name, "ord": ord, "qfmt": qfmt, "afmt": afmt, "did": nil, "bqfmt": "", "bafmt": ""}
	}

	return map[string]interface{}{
		"id":    g.modelID,
		"name":  "wordspeak English-Korean",
		"type":  0,
		"mod":   now,
		"usn":   -1,
		"sortf": 0,
		"did":   g.deckID,
		"req":   [][]interface{}{{0, "all", []int{0}}, {1, "all", []int{1}}},
		"tags":  []string{},
		"vers":  []int{},
		"flds":  []map[string]interface{}{field("English", 0), field("Korean", 1), field("Audio", 2)},
		"tmpls": []map[string]interface{}{
			template("English to Korean", 0,
				`<div class="english">{{English}}</div>{{Audio}}`,
				`{{FrontSide}}<hr id="answer"><div class="korean">{{Korean}}</div>`),
			template("Korean to English", 1,
				`<div class="korean">{{Korean}}</div>`,
				`{{FrontSide}}<hr id="answer"><div class="english">{{English}}</div>{{Audio}}`),
		},
		"css": `.card { font-family: Arial, sans-serif; font-size: 20px; text-align: center; }
.english { font-size: 28px; font-weight: bold; color: #2c3e50; margin: 20px 0; }
.korean { font-size: 30px; color: #c0392b; margin: 20px 0; }`,
		"latexPre":  "",
		"latexPost": "",
	}
}

// insertNotes inserts one note and two cards per card
func (g *APKGGenerator) insertNotes(tx *sql.Tx) error {
	now := time.Now()
	base := now.UnixMilli()

	noteStmt, err := tx.Prepare(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	for i, card := range g.cards {
		noteID := base + int64(i*3)

		audio := ""
		if name := filepath.Base(card.AudioFile); card.AudioFile != "" {
			if _, ok := g.media[name]; ok {
				audio = soundTag(name)
			}
		}

		fields := strings.Join([]string{card.English, card.Korean, audio}, fieldSeparator)

		guid := fmt.Sprintf("ws%d_%s", i, internal.GenerateCardID(card.English+"\x00"+card.Korean))

		if _, err := noteStmt.Exec(
			noteID,       // id
			guid,         // guid
			g.modelID,    // mid
			now.Unix(),   // mod
			-1,           // usn
			"wordspeak",  // tags
			fields,       // flds
			card.English, // sfld (sort field)
			0,            // csum
			0,            // flags
			"",           // data
		); err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		// ord 0 and 1 match the two templates; due is the new-card position
		for ord := 0; ord < 2; ord++ {
			if _, err := cardStmt.Exec(noteID+int64(ord+1), noteID, g.deckID, ord, now.Unix(), -1, noteID+int64(ord)); err != nil {
				return fmt.Errorf("failed to insert card: %w", err)
			}
		}
	}

	return nil
}

// zipDirectory packs the files of dir into a zip archive at outputPath
func zipDirectory(dir, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	archive := zip.NewWriter(out)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		w, err := archive.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		return err
	}

	if err := archive.Close(); err != nil {
		return err
	}
	return out.Close()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
