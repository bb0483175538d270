package cli

import (
	"bufio"
	"io"
	"math/big"
	"strconv"
	"strings"

	apperrors "github.com/agbru/fibmod/internal/errors"
)

// maxInputTokenSize bounds a single whitespace-separated token read from
// standard input. It allows exponents of about a million decimal digits.
const maxInputTokenSize = 1 << 20

// ParseOperands converts the decimal texts of n and m into a query.
// n may have any number of digits; m must fit in a uint64 and be at least 1.
//
// Returns:
//   - *big.Int: The exponent n.
//   - uint64: The modulus m.
//   - error: A ValidationError matching ErrInvalidExponent or ErrInvalidModulus.
func ParseOperands(nText, mText string) (*big.Int, uint64, error) {
	nText = strings.TrimPrefix(strings.TrimSpace(nText), "+")
	n, ok := new(big.Int).SetString(nText, 10)
	if !ok || n.Sign() < 0 {
		return nil, 0, apperrors.NewInvalidExponentError(nText)
	}

	mText = strings.TrimPrefix(strings.TrimSpace(mText), "+")
	m, err := strconv.ParseUint(mText, 10, 64)
	if err != nil || m < 1 {
		return nil, 0, apperrors.NewInvalidModulusError(mText)
	}
	return n, m, nil
}

// ReadOperands reads two whitespace-separated integers "n m" from r.
// Anything after the second token is ignored.
func ReadOperands(r io.Reader) (*big.Int, uint64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxInputTokenSize)
	scanner.Split(bufio.ScanWords)

	tokens := make([]string, 0, 2)
	for len(tokens) < 2 && scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, apperrors.WrapError(err, "failed to read input")
	}
	switch len(tokens) {
	case 0:
		return nil, 0, apperrors.NewInvalidExponentError("<missing>")
	case 1:
		return nil, 0, apperrors.NewInvalidModulusError("<missing>")
	}
	return ParseOperands(tokens[0], tokens[1])
}
