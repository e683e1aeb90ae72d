package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/justyntemme/bookfinder/internal/ui/styles"
	"github.com/justyntemme/bookfinder/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Output formats accepted by --format
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

const titleColumnWidth = 48

// bookRecord is the printable form of a book
type bookRecord struct {
	Key         string   `json:"key" yaml:"key"`
	Title       string   `json:"title" yaml:"title"`
	Authors     []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year        *int     `json:"first_publish_year,omitempty" yaml:"first_publish_year,omitempty"`
	Description string   `json:"description" yaml:"description"`
	Subjects    []string `json:"subjects,omitempty" yaml:"subjects,omitempty"`
	CoverURL    string   `json:"cover_url,omitempty" yaml:"cover_url,omitempty"`
}

// listing is one printed result set
type listing struct {
	Query      string       `json:"query" yaml:"query"`
	Page       int          `json:"page,omitempty" yaml:"page,omitempty"`
	TotalPages int          `json:"total_pages,omitempty" yaml:"total_pages,omitempty"`
	Total      int          `json:"total" yaml:"total"`
	Books      []bookRecord `json:"books" yaml:"books"`
}

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

// toRecords converts books for printing, resolving covers against coversURL
func toRecords(books []models.Book, coversURL string) []bookRecord {
	records := make([]bookRecord, 0, len(books))
	for _, b := range books {
		r := bookRecord{
			Key:         b.Key,
			Title:       b.Title,
			Authors:     b.AuthorName,
			Year:        b.FirstPublishYear,
			Description: b.Description(),
			Subjects:    b.Subjects(),
		}
		if b.CoverID != nil {
			r.CoverURL = models.CoverURL(coversURL, *b.CoverID, models.CoverMedium)
		}
		records = append(records, r)
	}
	return records
}

// render writes l to w in the requested format
func render(w io.Writer, format string, l listing) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(l, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	default:
		return renderTable(w, l)
	}
}

// renderTable prints a bordered table followed by a count line
func renderTable(w io.Writer, l listing) error {
	if len(l.Books) == 0 {
		_, err := fmt.Fprintln(w, "No books found")
		return err
	}

	rows := make([][]string, 0, len(l.Books))
	for i, b := range l.Books {
		author := models.UnknownAuthor
		if len(b.Authors) > 0 {
			author = b.Authors[0]
		}
		year := models.UnknownYear
		if b.Year != nil {
			year = strconv.Itoa(*b.Year)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			styles.TruncateText(b.Title, titleColumnWidth),
			styles.TruncateText(author, 28),
			year,
			b.Key,
		})
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "Title", "Author", "Year", "Key").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	noun := "results"
	if l.Total == 1 {
		noun = "result"
	}
	summary := fmt.Sprintf("%s %s", humanize.Comma(int64(l.Total)), noun)
	if l.TotalPages > 0 {
		summary += fmt.Sprintf(", page %d of %d", l.Page, l.TotalPages)
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}
