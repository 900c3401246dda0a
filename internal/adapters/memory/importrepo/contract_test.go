package importrepo

import (
	"testing"

	"github.com/Overland-East-Bay/club-subscriptions/internal/adapters/contracttest"
	importrepoport "github.com/Overland-East-Bay/club-subscriptions/internal/ports/out/importrepo"
)

func TestContract_ImportRepo(t *testing.T) {
	contracttest.RunImportRepo(t, func(t *testing.T) (importrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(), nil
	})
}
