// package formatter provides functions to export feed data to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/skillswap/internal/models"
	"github.com/desertthunder/skillswap/internal/shared"
)

// ExportToCSV converts a FeedExport to CSV format with columns: ID, Type, Description, Categories, User ID, Author, Pin Code
func ExportToCSV(export *models.FeedExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Type", "Description", "Categories", "User ID", "Author", "Pin Code"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, post := range export.Posts {
		record := []string{
			strconv.FormatInt(post.ID, 10),
			string(post.PostType),
			post.Description,
			joinCategories(post.Categories, "; "),
			strconv.FormatInt(post.UserID, 10),
			authorName(export, post),
			deref(post.PinCode),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FeedExport to Markdown, grouping offers and requests.
//
// avatars maps user ids to image files written next to the document.
func ExportToMarkdown(export *models.FeedExport, avatars map[int64]string) ([]byte, error) {
	var buf bytes.Buffer
	meta := export.Metadata()

	buf.WriteString(fmt.Sprintf("# SkillSwap %s feed\n\n", export.Feed))
	buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt.Format(time.RFC1123)))
	buf.WriteString(fmt.Sprintf("**Posts**: %d (%d offers, %d requests)\n\n", meta.PostCount, meta.Offers, meta.Requests))

	for _, section := range []struct {
		title string
		kind  models.PostType
	}{{"Offers", models.Offer}, {"Requests", models.Request}} {
		posts := filterPosts(export.Posts, section.kind)
		if len(posts) == 0 {
			continue
		}

		buf.WriteString(fmt.Sprintf("## %s\n\n", section.title))
		for i, post := range posts {
			buf.WriteString(fmt.Sprintf("%d. **%s**", i+1, authorName(export, post)))
			if img, ok := avatars[post.UserID]; ok {
				buf.WriteString(fmt.Sprintf(" ![avatar](%s)", img))
			}
			buf.WriteString(fmt.Sprintf(": %s\n", post.Description))
			if len(post.Categories) > 0 {
				buf.WriteString(fmt.Sprintf("   - Categories: %s\n", joinCategories(post.Categories, ", ")))
			}
			if pin := deref(post.PinCode); pin != "" {
				buf.WriteString(fmt.Sprintf("   - Pin code: %s\n", pin))
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FeedExport to plain text format
func ExportToText(export *models.FeedExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Feed: %s\n", export.Feed))
	buf.WriteString(fmt.Sprintf("Posts: %d\n\n", len(export.Posts)))

	for i, post := range export.Posts {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s - %s\n", i+1, post.PostType, authorName(export, post), post.Description))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of the export metadata (without posts)
func ToMetadataJSON(export *models.FeedExport) ([]byte, error) {
	return shared.MarshalJSON(export.Metadata(), true)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	PostsFile    string
	MetadataFile string
}

// WriteCSVExport exports a feed to CSV format with accompanying metadata JSON file.
//
// Defaults to the feed name as the base filename & creates {base}_posts.csv and {base}_metadata.json
func WriteCSVExport(export *models.FeedExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Feed
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	postsFile := baseFilepath + "_posts.csv"
	if err := os.WriteFile(postsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{PostsFile: postsFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Avatars   int
	Warnings  []string
}

// MarkdownOpts controls [WriteMarkdownExport].
type MarkdownOpts struct {
	Avatars bool         // Download author profile pictures into {dir}/avatars
	Client  *http.Client // Used for avatar downloads
}

// WriteMarkdownExport exports a feed to Markdown format in a dedicated directory.
//
// Directory name defaults to the feed name. Creates {dir}/README.md and, with avatars enabled,
// {dir}/avatars/{user id}{ext}. A failed avatar download is recorded as a warning and skipped.
func WriteMarkdownExport(ctx context.Context, export *models.FeedExport, outputDir string, opts MarkdownOpts) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Feed
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	avatars := map[int64]string{}
	if opts.Avatars {
		for id, profile := range export.Authors {
			pic := deref(profile.ProfilePicture)
			if !strings.HasPrefix(pic, "http://") && !strings.HasPrefix(pic, "https://") {
				continue
			}

			data, err := DownloadImage(ctx, opts.Client, pic)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("user %d: %v", id, err))
				continue
			}

			name := filepath.Join("avatars", strconv.FormatInt(id, 10)+imageExt(pic))
			full := filepath.Join(outputDir, name)
			if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
				return nil, fmt.Errorf("failed to create avatar directory: %w", err)
			}
			if err := os.WriteFile(full, data, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("user %d: failed to save avatar: %v", id, err))
				continue
			}

			avatars[id] = filepath.ToSlash(name)
			result.Files = append(result.Files, full)
			result.Avatars++
		}
	}

	mdData, err := ExportToMarkdown(export, avatars)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a feed to plain text format.
//
// Defaults to {feed}_posts.txt as the filename.
func WriteTextExport(export *models.FeedExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_posts.txt", export.Feed)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport writes the full export, posts and authors included.
//
// Defaults to {feed}_export.json as the filename.
func WriteJSONExport(export *models.FeedExport, filepath string, pretty bool) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_export.json", export.Feed)
	}

	data, err := shared.MarshalJSON(export, pretty)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

func authorName(export *models.FeedExport, post models.Post) string {
	if profile, ok := export.AuthorOf(post); ok {
		return profile.DisplayName()
	}
	return post.Author()
}

func filterPosts(posts []models.Post, kind models.PostType) []models.Post {
	out := []models.Post{}
	for _, p := range posts {
		if p.PostType == kind {
			out = append(out, p)
		}
	}
	return out
}

func joinCategories(categories []models.Category, sep string) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, sep)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// imageExt keeps a known image extension from the URL path, defaulting to .jpg.
func imageExt(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	switch ext := strings.ToLower(path.Ext(url)); ext {
	case ".png", ".gif", ".webp", ".jpeg", ".jpg":
		return ext
	default:
		return ".jpg"
	}
}
