package bible

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultBaseURL = "https://bible-api.com"
const defaultTranslation = "web"

// Client fetches chapter text from the public Bible API. The engine never
// depends on verse text; this only feeds the reading view.
type Client struct {
	httpCli *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpCli: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

type Chapter struct {
	Reference   string
	Translation string
	Verses      []Verse
}

type Verse struct {
	Book    string
	Chapter int
	Verse   int
	Text    string
}

type chapterResponse struct {
	Reference string `json:"reference"`
	Verses    []struct {
		BookID   string `json:"book_id"`
		BookName string `json:"book_name"`
		Chapter  int    `json:"chapter"`
		Verse    int    `json:"verse"`
		Text     string `json:"text"`
	} `json:"verses"`
	TranslationID string `json:"translation_id"`
}

// Chapter fetches one chapter by the book's display name.
func (c *Client) Chapter(ctx context.Context, bookName string, chapter int, translation string) (Chapter, error) {
	if translation == "" {
		translation = defaultTranslation
	}
	link := fmt.Sprintf("%s/%s?translation=%s",
		c.baseURL,
		url.PathEscape(fmt.Sprintf("%s %d", bookName, chapter)),
		url.QueryEscape(translation),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return Chapter{}, err
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return Chapter{}, errors.Wrap(err, "failed to fetch chapter")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Chapter{}, fmt.Errorf("status code: %d, body: %s", resp.StatusCode, body)
	}

	var decoded chapterResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Chapter{}, errors.Wrap(err, "failed to decode chapter")
	}

	result := Chapter{
		Reference:   decoded.Reference,
		Translation: decoded.TranslationID,
		Verses:      make([]Verse, 0, len(decoded.Verses)),
	}
	for _, v := range decoded.Verses {
		result.Verses = append(result.Verses, Verse{
			Book:    v.BookName,
			Chapter: v.Chapter,
			Verse:   v.Verse,
			Text:    strings.TrimSpace(v.Text),
		})
	}
	return result, nil
}
