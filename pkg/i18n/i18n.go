package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/valyala/fasttemplate"
)

var ErrNotFound = errors.New("not found")

const fallbackLang = "en"

type message struct {
	template *fasttemplate.Template
	text     string
}

func (m *message) UnmarshalJSON(data []byte) error {
	var text string
	err := json.Unmarshal(data, &text)
	if err != nil {
		return err
	}
	m.text = text
	m.template, err = fasttemplate.NewTemplate(text, "{{", "}}")
	return err
}

// Messages holds translation tables keyed by language code and message id.
// Lookups for unknown languages fall back to english.
type Messages struct {
	mu    *sync.RWMutex
	langs map[string]map[string]*message
}

func New() *Messages {
	return &Messages{
		mu: &sync.RWMutex{},
	}
}

// Load replaces the current tables with the contents of a JSON file shaped
// as map[language_code]map[message_id]text. Safe to call concurrently with
// lookups, so the file can be hot-reloaded.
func (m *Messages) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var langs map[string]map[string]*message
	if err := json.NewDecoder(f).Decode(&langs); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.langs = langs
	return nil
}

func (m *Messages) Get(lang, id string) (string, error) {
	msg, ok := m.get(lang, id)
	if !ok {
		return "", ErrNotFound
	}
	return msg.text, nil
}

func (m *Messages) GetWithArgs(lang, id string, args map[string]string) (string, error) {
	msg, ok := m.get(lang, id)
	if !ok {
		return "", ErrNotFound
	}
	return msg.template.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		value, ok := args[tag]
		if !ok {
			return 0, fmt.Errorf("missing argument %s", tag)
		}
		return w.Write([]byte(value))
	})
}

func (m *Messages) get(lang, id string) (*message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if msg, ok := m.langs[lang][id]; ok {
		return msg, true
	}
	msg, ok := m.langs[fallbackLang][id]
	return msg, ok
}
