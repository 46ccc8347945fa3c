package facematch

import (
	"math"
	"slices"

	"github.com/coder/hnsw"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Options control how a Matcher is built.
type Options struct {
	Threshold float64 // maximum distance accepted as a match
	Metric    Metric

	// IndexMinSize is the number of descriptors from which an HNSW graph
	// seeds the search. Zero disables the index. Only the euclidean metric
	// is indexed.
	IndexMinSize int
	// CandidateK is the number of graph neighbours used to seed the search.
	CandidateK int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Threshold:    constants.DefaultDistanceThreshold,
		Metric:       MetricEuclidean,
		IndexMinSize: constants.DefaultIndexMinSize,
		CandidateK:   constants.DefaultCandidateK,
	}
}

type entry struct {
	label      string
	rank       int // roster position of label, lower wins ties
	descriptor Descriptor
}

// Matcher maps a descriptor to the closest registered label.
// A Matcher is immutable: it is closed over the snapshot it was built from
// and must be rebuilt when the registry changes.
type Matcher struct {
	entries    []entry
	labels     []string
	threshold  float64
	metric     Metric
	distance   DistanceFunc
	dim        int
	graph      *hnsw.Graph[int]
	candidateK int

	// byNorm holds entry indexes sorted by descriptor norm, norms the
	// matching norms. Both are set together with graph.
	byNorm []int
	norms  []float64
}

// normSlack widens the norm window to absorb rounding in the distance kernels.
const normSlack = 1e-6

// Build creates a matcher from a registry snapshot.
// Returns nil when the snapshot holds no usable descriptor.
// Descriptors whose length differs from the first one are skipped.
func Build(snapshot []LabeledDescriptor, opts Options) *Matcher {
	if opts.Threshold <= 0 {
		opts.Threshold = constants.DefaultDistanceThreshold
	}
	if opts.Metric == "" {
		opts.Metric = MetricEuclidean
	}

	m := &Matcher{
		threshold:  opts.Threshold,
		metric:     opts.Metric,
		distance:   opts.Metric.Func(),
		candidateK: max(opts.CandidateK, 1),
	}

	for rank, ld := range snapshot {
		added := false
		for _, d := range ld.Descriptors {
			if len(d) == 0 {
				continue
			}
			if m.dim == 0 {
				m.dim = len(d)
			}
			if len(d) != m.dim {
				continue
			}
			m.entries = append(m.entries, entry{label: ld.Label, rank: rank, descriptor: d})
			added = true
		}
		if added {
			m.labels = append(m.labels, ld.Label)
		}
	}

	if len(m.entries) == 0 {
		return nil
	}

	if opts.Metric == MetricEuclidean && opts.IndexMinSize > 0 && len(m.entries) >= opts.IndexMinSize {
		m.graph = buildGraph(m.entries)
		m.byNorm, m.norms = sortByNorm(m.entries)
	}

	return m
}

func buildGraph(entries []entry) *hnsw.Graph[int] {
	g := hnsw.NewGraph[int]()
	g.M = constants.HNSWMaxNeighbors
	g.Ml = 1.0 / float64(constants.HNSWMaxNeighbors)
	g.EfSearch = constants.HNSWEfSearch
	g.Distance = hnsw.EuclideanDistance

	for i := range entries {
		g.Add(hnsw.MakeNode(i, []float32(entries[i].descriptor)))
	}
	return g
}

func sortByNorm(entries []entry) ([]int, []float64) {
	norm := make([]float64, len(entries))
	order := make([]int, len(entries))
	for i := range entries {
		norm[i] = descriptorNorm(entries[i].descriptor)
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		switch {
		case norm[a] < norm[b]:
			return -1
		case norm[a] > norm[b]:
			return 1
		}
		return a - b
	})

	sorted := make([]float64, len(order))
	for k, i := range order {
		sorted[k] = norm[i]
	}
	return order, sorted
}

func descriptorNorm(d Descriptor) float64 {
	var sum float64
	for _, v := range d {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// Match returns the closest label within the threshold, or an unknown result
// carrying the smallest distance found. Equal distances resolve to the label
// registered first.
func (m *Matcher) Match(descriptor Descriptor) MatchResult {
	best := -1
	bestDistance := math.MaxFloat64

	consider := func(i int) {
		d := m.distance(descriptor, m.entries[i].descriptor)
		if best < 0 || d < bestDistance || (d == bestDistance && m.entries[i].rank < m.entries[best].rank) {
			best = i
			bestDistance = d
		}
	}

	if m.graph != nil && len(descriptor) == m.dim {
		for _, i := range m.candidates(descriptor) {
			consider(i)
		}
		// An entry whose norm differs from the query norm by more than the
		// best distance so far cannot be closer (triangle inequality), so
		// only the norm window around the query is scanned.
		m.scanNormWindow(descriptor, bestDistance, consider)
	} else {
		for i := range m.entries {
			consider(i)
		}
	}

	if best < 0 || bestDistance > m.threshold {
		return MatchResult{Distance: bestDistance}
	}
	return MatchResult{Label: m.entries[best].label, Distance: bestDistance, Matched: true}
}

// candidates returns entry indexes proposed by the HNSW graph.
func (m *Matcher) candidates(descriptor Descriptor) []int {
	k := min(m.candidateK, len(m.entries))
	nodes := m.graph.Search([]float32(descriptor), k)
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Key)
	}
	return out
}

// scanNormWindow visits every entry whose norm lies within radius of the
// query norm.
func (m *Matcher) scanNormWindow(descriptor Descriptor, radius float64, visit func(int)) {
	q := descriptorNorm(descriptor)
	if radius >= math.MaxFloat64/2 {
		for i := range m.entries {
			visit(i)
		}
		return
	}
	lo, _ := slices.BinarySearch(m.norms, q-radius-normSlack)
	hi := q + radius + normSlack
	for k := lo; k < len(m.norms) && m.norms[k] <= hi; k++ {
		visit(m.byNorm[k])
	}
}

// MatchAll matches descriptors in order.
func (m *Matcher) MatchAll(descriptors []Descriptor) []MatchResult {
	results := make([]MatchResult, len(descriptors))
	for i, d := range descriptors {
		results[i] = m.Match(d)
	}
	return results
}

// Labels returns the roster the matcher was built from, in registration order.
func (m *Matcher) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// Threshold returns the maximum accepted distance.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Metric returns the distance metric.
func (m *Matcher) Metric() Metric {
	return m.metric
}

// Dim returns the descriptor length the matcher accepts.
func (m *Matcher) Dim() int {
	return m.dim
}

// Indexed reports whether matching is seeded by an HNSW graph.
func (m *Matcher) Indexed() bool {
	return m.graph != nil
}

// Len returns the number of descriptors in the matcher.
func (m *Matcher) Len() int {
	return len(m.entries)
}
