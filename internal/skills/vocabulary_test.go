package skills

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	v := Default()

	tests := []struct {
		name      string
		text      string
		technical []string
		soft      []string
	}{
		{
			name:      "plain words",
			text:      "Built services in Python and Go on Kubernetes.",
			technical: []string{"go", "kubernetes", "python"},
			soft:      []string{},
		},
		{
			name:      "separators are normalized",
			text:      "Owned the CI/CD pipeline; strong problem_solving and Time-Management.",
			technical: []string{"ci/cd"},
			soft:      []string{"problem-solving", "time management"},
		},
		{
			name:      "symbols stay part of the token",
			text:      "Ten years of C++ and C#, some Node.js.",
			technical: []string{"c#", "c++", "node.js"},
			soft:      []string{},
		},
		{
			name:      "no partial words",
			text:      "Googled for rustic gold and javanese coffee",
			technical: []string{},
			soft:      []string{},
		},
		{
			name:      "multi word terms",
			text:      "Spring Boot on Google Cloud, Power BI dashboards",
			technical: []string{"google cloud", "power bi", "spring", "spring boot"},
			soft:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := v.Extract(tt.text)
			assert.Equal(t, tt.technical, got.Technical)
			assert.Equal(t, tt.soft, got.Soft)
		})
	}
}

func TestNewMergesAndReplaces(t *testing.T) {
	t.Parallel()

	merged := New(Config{Technical: []string{" Pulumi ", "python"}})
	assert.Equal(t, Default().Len()+1, merged.Len())
	assert.Contains(t, merged.Names(Technical), "pulumi")

	replaced := New(Config{Technical: []string{"Pulumi"}, Soft: []string{"mentoring"}, Replace: true})
	assert.Equal(t, []string{"pulumi"}, replaced.Names(Technical))
	assert.Equal(t, []string{"mentoring"}, replaced.Names(Soft))

	res := replaced.Extract("Mentoring juniors while writing Pulumi and Python")
	assert.Equal(t, []string{"pulumi", "mentoring"}, res.All())
}

func TestExtractConcurrent(t *testing.T) {
	t.Parallel()

	v := Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"docker"}, v.Extract("docker").Technical)
		}()
	}
	wg.Wait()
}
