package seeder

import (
	"math"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Lumos-Labs-HQ/banksynth/internal/dataset"
)

type FakeKind int

const (
	FakeFirstName FakeKind = iota
	FakeLastName
	FakeFullName
	FakeEmail
	FakePhone
	FakeSSN
	FakeStreetAddress
	FakeCompany
	FakeJobTitle
	FakeCatchPhrase
	FakeUUID
	FakeIPv4
)

// DataGenerator is the seeded source behind every generated value.
type DataGenerator struct {
	rand *rand.Rand
	fake *gofakeit.Faker
}

func NewDataGenerator(seed int64) *DataGenerator {
	fakeSeed := uint64(seed)
	if fakeSeed == 0 {
		// gofakeit treats 0 as "seed from crypto/rand".
		fakeSeed = 1
	}
	return &DataGenerator{
		rand: rand.New(rand.NewSource(seed)),
		fake: gofakeit.New(fakeSeed),
	}
}

func (g *DataGenerator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.rand.Intn(n)
}

// IntBetween returns an int in [min, max].
func (g *DataGenerator) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}

// Int64Between returns an int64 in [min, max].
func (g *DataGenerator) Int64Between(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + g.rand.Int63n(max-min+1)
}

// Uniform returns a float in [min, max).
func (g *DataGenerator) Uniform(min, max float64) float64 {
	return min + g.rand.Float64()*(max-min)
}

func (g *DataGenerator) Float64() float64 {
	return g.rand.Float64()
}

// Chance reports true with probability p.
func (g *DataGenerator) Chance(p float64) bool {
	return g.rand.Float64() < p
}

func (g *DataGenerator) Money(min, max float64) decimal.Decimal {
	return RoundMoney(g.Uniform(min, max))
}

// DateBetween returns a date in [from, to]; from is returned when to precedes it.
func (g *DataGenerator) DateBetween(from, to dataset.Date) dataset.Date {
	span := from.DaysUntil(to)
	if span <= 0 {
		return from
	}
	return from.AddDays(g.rand.Intn(span + 1))
}

// UUID draws a v4 UUID from the seeded source so runs stay reproducible.
func (g *DataGenerator) UUID() string {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}

func (g *DataGenerator) Fake(kind FakeKind) string {
	switch kind {
	case FakeFirstName:
		return g.fake.FirstName()
	case FakeLastName:
		return g.fake.LastName()
	case FakeFullName:
		return g.fake.FirstName() + " " + g.fake.LastName()
	case FakeEmail:
		return g.fake.Email()
	case FakePhone:
		return g.generatePhone()
	case FakeSSN:
		return g.generateSSN()
	case FakeStreetAddress:
		return g.fake.Street()
	case FakeCompany:
		return g.fake.Company()
	case FakeJobTitle:
		return g.fake.JobTitle()
	case FakeCatchPhrase:
		return g.fake.Slogan()
	case FakeUUID:
		return g.UUID()
	case FakeIPv4:
		return g.fake.IPv4Address()
	default:
		return ""
	}
}

func (g *DataGenerator) Pattern(format string) string {
	var b strings.Builder
	b.Grow(len(format))
	for _, ch := range format {
		switch ch {
		case '^':
			b.WriteByte(byte('A' + g.rand.Intn(26)))
		case '#':
			b.WriteByte(byte('0' + g.rand.Intn(10)))
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func (g *DataGenerator) generatePhone() string {
	return g.Pattern("###-###-####")
}

func (g *DataGenerator) generateSSN() string {
	return g.Pattern("###-##-####")
}

// Choose picks one element uniformly.
func Choose[T any](g *DataGenerator, values []T) T {
	return values[g.rand.Intn(len(values))]
}

// Pick returns one of values uniformly; repeat entries to weight them.
func Pick(g *DataGenerator, values ...string) string {
	return Choose(g, values)
}

func RoundMoney(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
