package semantic

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Latent-space configuration constants.
const (
	defaultComponents     = 100
	defaultPairComponents = 50
)

// reduceLSA projects the TF-IDF matrix onto its top components latent
// dimensions via truncated SVD. For X = U·Σ·Vᵀ the document coordinates in
// the reduced space are the first components columns of U·Σ. Callers skip
// reduction when the feature count is not larger than components.
func reduceLSA(x *mat.Dense, components int) (*mat.Dense, error) {
	rows, cols := x.Dims()
	// A thin SVD yields min(rows, cols) singular values and as many columns
	// of U, so the projection cannot be wider than that.
	rank := rows
	if cols < rank {
		rank = cols
	}
	if components > rank {
		components = rank
	}
	if components < 1 {
		return nil, fmt.Errorf("lsa: %d components requested", components)
	}

	var svd mat.SVD
	if ok := svd.Factorize(x, mat.SVDThin); !ok {
		return nil, fmt.Errorf("lsa: svd factorization did not converge")
	}

	var u mat.Dense
	svd.UTo(&u)
	sigma := svd.Values(nil)

	reduced := mat.NewDense(rows, components, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < components; j++ {
			reduced.Set(i, j, u.At(i, j)*sigma[j])
		}
	}
	return reduced, nil
}
