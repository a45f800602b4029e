package geometry

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultDistortion is the wobble amplitude used when callers pass none.
const DefaultDistortion = 0.5

// DistortCacheSize bounds the number of memoized distorted paths.
const DistortCacheSize = 100

var (
	pathCommand    = regexp.MustCompile(`(?i)[MLHVCSQTAZ][^MLHVCSQTAZ]*`)
	coordSeparator = regexp.MustCompile(`[\s,]+`)
)

// Distorter perturbs path data deterministically per seed so an edge or
// frame always renders with the same hand-drawn wobble. Results are cached;
// the cache evicts the oldest inserted entry once it is full.
type Distorter struct {
	cache *lru.Cache[string, string]
}

// NewDistorter creates a distorter with a cache of the given size.
func NewDistorter(size int) *Distorter {
	if size <= 0 {
		size = DistortCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &Distorter{cache: cache}
}

// Distort offsets every numeric coordinate of every path command by
// (p-0.5)*amount where p = (sin(seed+cmd*100+coord mod 1000)+1)/2.
// An empty seed is treated as the "default" seed with value 0.
func (d *Distorter) Distort(path string, amount float64, seed string) string {
	seedKey := seed
	if seedKey == "" {
		seedKey = "default"
	}
	key := fmt.Sprintf("%s-%s-%s", path, FormatNumber(amount), seedKey)
	// Peek keeps insertion order as the eviction order.
	if v, ok := d.cache.Peek(key); ok {
		return v
	}

	result := distort(path, amount, seedValue(seed))
	d.cache.Add(key, result)
	return result
}

// Len returns the number of cached paths.
func (d *Distorter) Len() int {
	return d.cache.Len()
}

// Clear drops every cached path.
func (d *Distorter) Clear() {
	d.cache.Purge()
}

func seedValue(seed string) int {
	total := 0
	for _, unit := range utf16.Encode([]rune(seed)) {
		total += int(unit)
	}
	return total
}

func distort(path string, amount float64, seed int) string {
	commands := pathCommand.FindAllString(path, -1)
	out := make([]string, 0, len(commands))
	for ci, cmd := range commands {
		coords := parseCoords(cmd[1:])
		parts := make([]string, len(coords))
		for i, c := range coords {
			r := (seed + ci*100 + i) % 1000
			p := (math.Sin(float64(r)) + 1) / 2
			parts[i] = FormatNumber(c + (p-0.5)*amount)
		}
		out = append(out, cmd[:1]+strings.Join(parts, " "))
	}
	return strings.Join(out, " ")
}

// parseCoords splits a command body on whitespace and commas. An empty
// field counts as zero so a bare "Z" still carries one coordinate.
func parseCoords(body string) []float64 {
	fields := coordSeparator.Split(strings.TrimSpace(body), -1)
	coords := make([]float64, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			coords = append(coords, 0)
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		coords = append(coords, v)
	}
	return coords
}
