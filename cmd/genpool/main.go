// Command genpool generates a synthetic candidate dataset for local
// development and load testing. The records are fabricated; real
// deployments point the store at an exported applicant pool instead.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/talentrank/talentrank/internal/domain"
)

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Ken", "Dennis", "Margaret", "Linus", "Rob", "Radia"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Thompson", "Ritchie", "Hamilton", "Perlman"}
	skillPool  = []string{"Go", "Python", "TypeScript", "Kubernetes", "PostgreSQL", "Redis", "Kafka", "gRPC", "Terraform", "AWS", "React", "Rust", "Docker", "GraphQL"}
	locations  = []string{"Berlin, DE", "Austin, TX", "Toronto, CA", "London, UK", "Remote", "Warsaw, PL", "Lisbon, PT"}
	degrees    = []string{"BSc Computer Science", "MSc Software Engineering", "BEng Electrical Engineering", "BSc Mathematics", "Self-taught"}
	schools    = []string{"TU Berlin", "UT Austin", "University of Toronto", "Imperial College", "MIT", "University of Warsaw"}
	titles     = []string{"Backend Engineer", "Senior Backend Engineer", "Platform Engineer", "Site Reliability Engineer", "Staff Engineer", "Software Engineer"}
	companies  = []string{"Initech", "Globex", "Umbrella Labs", "Hooli", "Stark Industries", "Pied Piper"}

	availabilities = []string{
		domain.AvailabilityImmediate,
		domain.AvailabilityTwoWeeks,
		domain.AvailabilityOneMonth,
		domain.AvailabilityFlexible,
	}
)

func pick(r *rand.Rand, list []string) string {
	return list[r.Intn(len(list))]
}

func pickN(r *rand.Rand, list []string, n int) []string {
	idx := r.Perm(len(list))
	if n > len(list) {
		n = len(list)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, list[i])
	}
	return out
}

func generate(r *rand.Rand, n int) []domain.Candidate {
	pool := make([]domain.Candidate, 0, n)
	for i := 0; i < n; i++ {
		name := pick(r, firstNames) + " " + pick(r, lastNames)
		years := r.Intn(20)
		skills := pickN(r, skillPool, 3+r.Intn(5))

		c := domain.Candidate{
			ID:              uuid.NewString(),
			Name:            name,
			Email:           strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
			YearsExperience: years,
			Bio:             fmt.Sprintf("%s with %d years of experience, focused on %s.", pick(r, titles), years, strings.Join(skills[:2], " and ")),
			Location:        pick(r, locations),
			Skills:          skills,
			Education: []domain.EducationEntry{{
				Degree:      pick(r, degrees),
				Institution: pick(r, schools),
				Year:        2005 + r.Intn(18),
			}},
			Availability: pick(r, availabilities),
		}

		for j := 0; j <= r.Intn(3); j++ {
			c.WorkHistory = append(c.WorkHistory, domain.WorkEntry{
				Title:          pick(r, titles),
				Company:        pick(r, companies),
				DurationMonths: 6 + r.Intn(60),
			})
		}

		pool = append(pool, c)
	}
	return pool
}

func main() {
	var (
		size       = flag.Int("size", 100, "Number of candidates to generate")
		seed       = flag.Int64("seed", 1, "Random seed for reproducible pools")
		outputPath = flag.String("output", "candidates.json", "Output file path")
	)
	flag.Parse()

	pool := generate(rand.New(rand.NewSource(*seed)), *size)

	data, err := json.MarshalIndent(pool, "", "  ")
	if err != nil {
		log.Fatalf("encode pool: %v", err)
	}
	if dir := filepath.Dir(*outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create output directory: %v", err)
		}
	}
	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		log.Fatalf("write pool: %v", err)
	}

	fmt.Printf("Generated candidate pool:\n")
	fmt.Printf("- Path: %s\n", *outputPath)
	fmt.Printf("- Candidates: %d\n", len(pool))
	fmt.Printf("- Seed: %d\n", *seed)
}
