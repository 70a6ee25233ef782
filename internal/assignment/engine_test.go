package assignment

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	assert.Equal(t, int64(0), Seed(""))
	assert.Equal(t, int64('A'), Seed("A"))
	assert.Equal(t, int64('A'+'B'), Seed("AB"))
	// Multi-byte identifiers sum code points, not bytes.
	assert.Equal(t, int64(0x6C34), Seed("水"))
}

func TestSeedIsOrderIndependent(t *testing.T) {
	assert.Equal(t, Seed("AB"), Seed("BA"))
	assert.Equal(t, Seed("User_01"), Seed("01_User"))
}

func TestAssignDeterministic(t *testing.T) {
	corpus := []string{
		"Group_1/a.jpg", "Group_1/b.jpg", "Group_1/c.jpg",
		"Group_1/d.jpg", "Group_1/e.jpg",
	}

	first := Assign("User_01", corpus)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Assign("User_01", corpus))
	}
}

func TestAnagramIdentifiersCollide(t *testing.T) {
	corpus := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"}
	assert.Equal(t, Assign("AB", corpus), Assign("BA", corpus))
}

func TestAssignIsPermutation(t *testing.T) {
	corpus := make([]string, 40)
	for i := range corpus {
		corpus[i] = fmt.Sprintf("Group_2/img_%03d.png", i)
	}

	for _, id := range []string{"", "u1", "User_01", "участник", "male_22_beijing"} {
		assigned := Assign(id, corpus)
		require.Len(t, assigned, len(corpus), "participant %q", id)

		seen := make(map[string]int)
		for _, name := range assigned {
			seen[name]++
		}
		for _, name := range corpus {
			assert.Equal(t, 1, seen[name], "participant %q image %q", id, name)
		}
	}
}

func TestAssignDoesNotModifyInput(t *testing.T) {
	corpus := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}
	backup := []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}
	Assign("User_01", corpus)
	assert.Equal(t, backup, corpus)
}

func TestAssignEmptyCorpus(t *testing.T) {
	assert.Empty(t, Assign("User_01", nil))
	assert.Empty(t, Assign("User_01", []string{}))
}

func TestResumeIndex(t *testing.T) {
	abcd := []string{"a", "b", "c", "d"}

	tests := []struct {
		name       string
		assignment []string
		completed  map[string]bool
		want       int
	}{
		{"nothing completed", abcd, map[string]bool{}, 0},
		{"nil completed set", abcd, nil, 0},
		{"first completed", abcd, map[string]bool{"a": true}, 1},
		{"gap after skip", abcd, map[string]bool{"a": true, "c": true}, 1},
		{"all but last", abcd, map[string]bool{"a": true, "b": true, "c": true}, 3},
		{"all completed lands on last", abcd, map[string]bool{"a": true, "b": true, "c": true, "d": true}, 3},
		{"empty assignment", nil, map[string]bool{"a": true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResumeIndex(tt.assignment, tt.completed))
		})
	}
}
