package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/agbru/fibmod/pkg/models"
)

// query is a golden target before evaluation.
type query struct {
	n string
	m uint64
}

func main() {
	outputDir := flag.String("out", "internal/strategy/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "fibmod_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// Interesting cases:
	// - trivial exponents and the modulus 1
	// - small exponents where F(n) < m
	// - large exponents against prime, prime power and composite moduli
	// - exponents beyond 64 bits
	targets := []query{
		{"0", 1}, {"0", 7}, {"1", 1}, {"1", 2}, {"2", 3}, {"3", 5},
		{"7", 10}, {"10", 2}, {"10", 1000}, {"20", 100}, {"100", 97}, {"239", 1000},
		{"2816213588", 13}, {"2816213588", 239}, {"2816213588", 30524},
		{"10000000000000000", 100000}, {"10000000000000000", 2},
		{"99999999999999999", 100000}, {"99999999999999999", 1000000000},
		{"123456789012345678901234567890", 1000},
		{"1267650600228229401496703205376", 65536},
		{"1000000000000000000000000000000", 99991},
		{"314159265358979323846", 2718},
	}

	data := make([]models.GoldenCase, 0, len(targets))

	fmt.Println("Generating golden data...")

	for _, q := range targets {
		n, ok := new(big.Int).SetString(q.n, 10)
		if !ok {
			fmt.Fprintf(os.Stderr, "Invalid exponent %q\n", q.n)
			os.Exit(1)
		}
		res := fibModBig(n, q.m)
		data = append(data, models.GoldenCase{N: q.n, M: q.m, Result: res})
		fmt.Printf("Generated F(%s) mod %d\n", q.n, q.m)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

// fibModBig computes F(n) mod m by squaring the matrix [[1,1],[1,0]] with
// math/big. It shares no code with the strategies and serves as our "Oracle".
func fibModBig(n *big.Int, m uint64) uint64 {
	mod := new(big.Int).SetUint64(m)
	// result = identity, base = Q
	r00, r01, r10, r11 := big.NewInt(1), big.NewInt(0), big.NewInt(0), big.NewInt(1)
	b00, b01, b10, b11 := big.NewInt(1), big.NewInt(1), big.NewInt(1), big.NewInt(0)

	mul := func(a00, a01, a10, a11, c00, c01, c10, c11 *big.Int) (*big.Int, *big.Int, *big.Int, *big.Int) {
		dot := func(x, y, z, w *big.Int) *big.Int {
			s := new(big.Int).Mul(x, y)
			s.Add(s, new(big.Int).Mul(z, w))
			return s.Mod(s, mod)
		}
		return dot(a00, c00, a01, c10), dot(a00, c01, a01, c11),
			dot(a10, c00, a11, c10), dot(a10, c01, a11, c11)
	}

	for i := 0; i < n.BitLen(); i++ {
		if n.Bit(i) == 1 {
			r00, r01, r10, r11 = mul(r00, r01, r10, r11, b00, b01, b10, b11)
		}
		b00, b01, b10, b11 = mul(b00, b01, b10, b11, b00, b01, b10, b11)
	}
	// Q^n = [[F(n+1), F(n)], [F(n), F(n-1)]]
	return new(big.Int).Mod(r01, mod).Uint64()
}
