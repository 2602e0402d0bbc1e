package engine_test

import (
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

func checkoutBranch(name string) *gogit.CheckoutOptions {
	return &gogit.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name)}
}
