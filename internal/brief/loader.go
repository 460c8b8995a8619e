// Package brief loads content briefs from YAML files.
// A brief file carries the brief itself plus the run settings for it:
// target platforms, content types, and image/publish options.
package brief

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"contentpipe/pkg/models"
)

// File is the on-disk structure of a brief YAML file.
type File struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Audience    string   `yaml:"audience"`
	Goals       []string `yaml:"goals"`
	Tone        string   `yaml:"tone"`
	Keywords    []string `yaml:"keywords"`

	Platforms    []string `yaml:"platforms"`
	ContentTypes []string `yaml:"content_types"`

	Options struct {
		GenerateImage      bool   `yaml:"generate_image"`
		ImageSource        string `yaml:"image_source"`
		PublishImmediately bool   `yaml:"publish"`
		ChannelID          string `yaml:"channel_id"`
		FactCheck          bool   `yaml:"fact_check"`
		TestMode           bool   `yaml:"test_mode"`
	} `yaml:"options"`
}

// Load reads and validates a brief file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brief file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse brief file %s: %w", filepath.Base(path), err)
	}

	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("brief file %s: %w", filepath.Base(path), err)
	}
	return &f, nil
}

// Validate checks the brief file for required fields.
func (f *File) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(f.Platforms) == 0 {
		return fmt.Errorf("at least one platform is required")
	}
	if len(f.ContentTypes) == 0 {
		return fmt.Errorf("at least one content type is required")
	}
	if f.Options.ImageSource != "" {
		if !models.ImageSource(f.Options.ImageSource).Valid() {
			return fmt.Errorf("invalid image source %q", f.Options.ImageSource)
		}
	}
	return nil
}

// Brief converts the file into the engine's brief model.
func (f *File) Brief() *models.ContentBrief {
	return &models.ContentBrief{
		Title:       f.Title,
		Description: f.Description,
		Audience:    f.Audience,
		Goals:       f.Goals,
		Tone:        f.Tone,
		Keywords:    f.Keywords,
	}
}

// BuildOptions converts the file's options into workflow build options.
func (f *File) BuildOptions() models.BuildOptions {
	return models.BuildOptions{
		GenerateImage:      f.Options.GenerateImage,
		ImageSource:        models.ImageSource(f.Options.ImageSource),
		PublishImmediately: f.Options.PublishImmediately,
		ChannelID:          f.Options.ChannelID,
		FactCheck:          f.Options.FactCheck,
		TestMode:           f.Options.TestMode,
	}
}

// ListDir returns the brief YAML files in a directory, sorted by name.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read briefs directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsBriefFile(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// IsBriefFile reports whether a file name looks like a brief file.
func IsBriefFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
