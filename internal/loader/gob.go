package loader

import (
	"io"

	"github.com/gcbaptista/go-voter-search/internal/persistence"
	"github.com/gcbaptista/go-voter-search/model"
)

func readGob(r io.Reader) (*model.Table, error) {
	return persistence.DecodeTable(r)
}
