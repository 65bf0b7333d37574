// Package skills finds known skill names in free text.
package skills

import (
	"regexp"
	"sort"
	"strings"
)

// Category groups skills in a vocabulary.
type Category string

const (
	Technical Category = "technical"
	Soft      Category = "soft"
)

var defaultTechnical = []string{
	// languages
	"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "php", "go", "rust", "scala",
	"swift", "kotlin", "dart", "r", "matlab", "perl", "sql", "html", "css", "sass", "less",
	// frameworks and libraries
	"react", "angular", "vue", "node.js", "express", "django", "flask", "spring", "spring boot",
	"laravel", "rails", "tensorflow", "pytorch", "keras", "pandas", "numpy", "scikit-learn",
	"bootstrap", "jquery", "redux", "graphql", "rest", "soap",
	// databases
	"mysql", "postgresql", "mongodb", "redis", "oracle", "sqlite", "mssql", "cassandra", "elasticsearch",
	// cloud and delivery
	"aws", "azure", "google cloud", "gcp", "docker", "kubernetes", "terraform", "jenkins", "git", "github",
	"gitlab", "bitbucket", "ci/cd", "devops",
	// tools and practices
	"linux", "unix", "bash", "powershell", "agile", "scrum", "kanban", "jira", "salesforce", "sap",
	"adobe", "figma", "sketch", "invision", "illustrator", "photoshop", "excel", "tableau", "power bi",
	"hadoop", "spark", "hive", "pig", "kafka", "airflow",
}

var defaultSoft = []string{
	"communication", "leadership", "teamwork", "problem-solving", "adaptability", "creativity",
	"critical thinking", "time management", "decision making", "negotiation", "conflict resolution",
	"emotional intelligence", "interpersonal skills", "collaboration", "attention to detail",
	"organizational skills", "analytical thinking", "customer service", "presentation skills",
	"project management", "strategic thinking", "innovation", "accountability", "integrity",
	"punctuality", "reliability", "flexibility", "resilience", "patience", "empathy",
}

// Config overrides the built-in vocabulary. Extra entries are added to the
// defaults unless Replace is set.
type Config struct {
	Technical []string `mapstructure:"technical"`
	Soft      []string `mapstructure:"soft"`
	Replace   bool     `mapstructure:"replace"`
}

type term struct {
	name     string
	category Category
	pattern  *regexp.Regexp
}

// Vocabulary is an immutable set of skill names with precompiled matchers.
// It is safe for concurrent use.
type Vocabulary struct {
	terms []term
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	return New(Config{})
}

// New builds a vocabulary from cfg.
func New(cfg Config) *Vocabulary {
	technical, soft := cfg.Technical, cfg.Soft
	if !cfg.Replace {
		technical = append(append([]string{}, defaultTechnical...), cfg.Technical...)
		soft = append(append([]string{}, defaultSoft...), cfg.Soft...)
	}

	v := &Vocabulary{}
	seen := make(map[string]struct{})
	add := func(names []string, category Category) {
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			v.terms = append(v.terms, term{name: name, category: category, pattern: compile(name)})
		}
	}
	add(technical, Technical)
	add(soft, Soft)

	return v
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int { return len(v.terms) }

// Names returns the terms of category in sorted order.
func (v *Vocabulary) Names(category Category) []string {
	var names []string
	for _, t := range v.terms {
		if t.category == category {
			names = append(names, t.name)
		}
	}
	sort.Strings(names)
	return names
}

// Result holds the skills found in a text, each list sorted.
type Result struct {
	Technical []string `json:"technical_skills"`
	Soft      []string `json:"soft_skills"`
}

// All returns technical skills followed by soft skills.
func (r Result) All() []string {
	return append(append([]string{}, r.Technical...), r.Soft...)
}

// Extract returns every vocabulary term that occurs in text as a whole word.
// Hyphens, underscores and slashes are treated as spaces on both sides, so
// "problem solving" matches "problem-solving" and "CI/CD" matches "ci cd".
func (v *Vocabulary) Extract(text string) Result {
	normalized := normalize(text)

	res := Result{Technical: []string{}, Soft: []string{}}
	for _, t := range v.terms {
		if !t.pattern.MatchString(normalized) {
			continue
		}
		switch t.category {
		case Technical:
			res.Technical = append(res.Technical, t.name)
		case Soft:
			res.Soft = append(res.Soft, t.name)
		}
	}

	sort.Strings(res.Technical)
	sort.Strings(res.Soft)
	return res
}

var separators = strings.NewReplacer("-", " ", "_", " ", "/", " ")

func normalize(text string) string {
	text = separators.Replace(strings.ToLower(text))
	return " " + strings.Join(strings.Fields(text), " ") + " "
}

// compile matches name surrounded by anything that cannot continue a skill
// token. '+', '#' and '.' are kept as token characters so "c" does not match
// inside "c++" and "node" does not match inside "node.js".
func compile(name string) *regexp.Regexp {
	words := strings.Fields(separators.Replace(name))
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	return regexp.MustCompile(`[^a-z0-9+#.]` + strings.Join(quoted, " ") + `(?:[^a-z0-9+#]|\.(?:[^a-z0-9]|$)|$)`)
}
