package document

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/skills"
)

// Loader reads resume and job profiles. A profile is a YAML or JSON file
// holding the matching.Resume or matching.Job fields; resumes may point at a
// PDF, DOCX or text file instead of inlining their content. Plain documents
// are accepted as resumes directly.
type Loader struct {
	// Vocabulary fills in resume skills when a profile lists none.
	Vocabulary *skills.Vocabulary
	// MaxBytes limits referenced documents.
	MaxBytes int64
}

type resumeProfile struct {
	matching.Resume `mapstructure:",squash"`
	ContentFile     string `mapstructure:"content-file"`
}

type jobProfile struct {
	matching.Job    `mapstructure:",squash"`
	DescriptionFile string `mapstructure:"description-file"`
}

var profileExtensions = map[string]struct{}{
	".yaml": {}, ".yml": {}, ".json": {}, ".toml": {},
}

// IsProfile reports whether path has a profile file extension.
func IsProfile(path string) bool {
	_, ok := profileExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadResume reads a resume profile, or extracts a bare document and derives
// its skills from the text.
func (l Loader) LoadResume(path string) (matching.Resume, error) {
	if !IsProfile(path) {
		doc, err := ExtractFile(path, l.MaxBytes)
		if err != nil {
			return matching.Resume{}, err
		}
		return l.ResumeFromDocument(idFromPath(path), doc), nil
	}

	var p resumeProfile
	if err := decodeProfile(path, &p); err != nil {
		return matching.Resume{}, err
	}

	resume := p.Resume
	if p.ContentFile != "" {
		doc, err := ExtractFile(relativeTo(path, p.ContentFile), l.MaxBytes)
		if err != nil {
			return matching.Resume{}, err
		}
		resume.Content = doc.Content
	}
	if resume.ID == "" {
		resume.ID = idFromPath(path)
	}
	if len(resume.Skills) == 0 && l.Vocabulary != nil {
		resume.Skills = l.Vocabulary.Extract(resume.Content).All()
	}

	return resume, nil
}

// ResumeFromDocument builds a resume from extracted text. Experience entries
// cannot be recovered from free text and stay empty.
func (l Loader) ResumeFromDocument(id string, doc *Document) matching.Resume {
	resume := matching.Resume{
		ID:         id,
		Name:       doc.Metadata["author"],
		Content:    doc.Content,
		Skills:     []string{},
		Experience: []matching.ExperienceEntry{},
	}
	if l.Vocabulary != nil {
		resume.Skills = l.Vocabulary.Extract(doc.Content).All()
	}
	return resume
}

// LoadJob reads a job profile.
func (l Loader) LoadJob(path string) (matching.Job, error) {
	var p jobProfile
	if err := decodeProfile(path, &p); err != nil {
		return matching.Job{}, err
	}

	job := p.Job
	if p.DescriptionFile != "" {
		doc, err := ExtractFile(relativeTo(path, p.DescriptionFile), l.MaxBytes)
		if err != nil {
			return matching.Job{}, err
		}
		job.Description = doc.Content
	}
	if job.ID == "" {
		job.ID = idFromPath(path)
	}
	if strings.TrimSpace(job.Description) == "" {
		return matching.Job{}, fmt.Errorf("job %s: description is required", path)
	}

	return job, nil
}

func decodeProfile(path string, out any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read profile %s: %w", path, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return fmt.Errorf("decode profile %s: %w", path, err)
	}

	return nil
}

func relativeTo(profile, target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(filepath.Dir(profile), target)
}

func idFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
