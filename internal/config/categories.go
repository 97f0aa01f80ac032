package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/chatmtl/internal/core"
	"gopkg.in/yaml.v3"
)

// DefaultCategories is the built-in category set, in match order.
var DefaultCategories = core.Categories{
	{ID: "news", Name: "news"},
	{ID: "eat-drink", Name: "eat/drink"},
	{ID: "things-to-do", Name: "things to do"},
	{ID: "travel", Name: "travel"},
	{ID: "sports", Name: "sports"},
	{ID: "lifestyle", Name: "lifestyle"},
	{ID: "money", Name: "money"},
	{ID: "deals", Name: "deals"},
	{ID: "real-estate", Name: "real estate"},
	{ID: "conversations", Name: "conversations"},
}

type categoriesFile struct {
	Categories core.Categories `yaml:"categories"`
}

// LoadCategories reads the categories file, falling back to DefaultCategories when it does not exist.
func LoadCategories(path string) (core.Categories, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultCategories, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return ParseCategories(data)
}

func ParseCategories(data []byte) (core.Categories, error) {
	var file categoriesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, errors.New("categories file defines no categories")
	}

	seen := make(map[string]struct{}, len(file.Categories))
	out := make(core.Categories, 0, len(file.Categories))
	for i, c := range file.Categories {
		c.ID = strings.TrimSpace(c.ID)
		c.Name = strings.TrimSpace(c.Name)
		if c.ID == "" {
			return nil, fmt.Errorf("category %d: empty id", i)
		}
		if c.Name == "" {
			c.Name = strings.ReplaceAll(c.ID, "-", " ")
		}
		if _, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("category %q: duplicate id", c.ID)
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// MarshalCategories renders categories in the categories file format.
func MarshalCategories(categories core.Categories) ([]byte, error) {
	return yaml.Marshal(categoriesFile{Categories: categories})
}
