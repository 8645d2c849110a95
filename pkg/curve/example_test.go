package curve_test

import (
	"fmt"

	"github.com/matzehuels/tether/pkg/curve"
	"github.com/matzehuels/tether/pkg/geometry"
)

func ExampleGeneratePath() {
	w := []geometry.Point{geometry.Pt(0, 100), geometry.Pt(300, 100)}

	fmt.Println(curve.GeneratePath(w, curve.Straight))
	fmt.Println(curve.GeneratePath(w, curve.Curved))
	// Output:
	// M 0 100 L 300 100
	// M 0 100 C 100 100 200 100 300 100
}

func ExampleGeneratePath_orthogonal() {
	w := []geometry.Point{geometry.Pt(0, 0), geometry.Pt(100, 50), geometry.Pt(150, 150)}

	fmt.Println(curve.GeneratePath(w, curve.Orthogonal))
	// Output:
	// M 0 0 H 100 V 50 V 150 H 150
}
