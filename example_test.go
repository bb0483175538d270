package fibmod_test

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/agbru/fibmod"
)

func ExampleCompute() {
	r, err := fibmod.Compute(big.NewInt(2816213588), 13)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(r)
	// Output: 5
}

func ExampleCompute_errors() {
	_, err := fibmod.Compute(big.NewInt(10), 0)
	fmt.Println(errors.Is(err, fibmod.ErrInvalidModulus))

	_, err = fibmod.Compute(big.NewInt(10), fibmod.MaxModulus+1)
	fmt.Println(errors.Is(err, fibmod.ErrTableTooLarge))
	// Output:
	// true
	// true
}

func ExamplePeriod() {
	p, _ := fibmod.Period(10)
	fmt.Println(p)
	// Output: 60
}
