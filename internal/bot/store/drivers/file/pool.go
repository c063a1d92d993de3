package file

import (
	"context"

	"github.com/aussiebroadwan/doorkeeper/internal/bot/store"
)

// poolDocumentName is the accounts document; it lands on disk as
// accounts.json in the shape {"accounts": [...]}.
const poolDocumentName = "accounts"

type poolDocument struct {
	Accounts []string `json:"accounts"`
}

func defaultPoolDocument() poolDocument {
	return poolDocument{Accounts: []string{}}
}

type poolRepo struct {
	s *Store
}

func (r *poolRepo) load() (poolDocument, error) {
	var doc poolDocument
	err := r.s.Load(poolDocumentName, defaultPoolDocument(), &doc)
	return doc, err
}

func (r *poolRepo) Accounts(_ context.Context) ([]string, error) {
	r.s.poolMu.Lock()
	defer r.s.poolMu.Unlock()

	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	return append([]string(nil), doc.Accounts...), nil
}

func (r *poolRepo) Size(_ context.Context) (int, error) {
	r.s.poolMu.Lock()
	defer r.s.poolMu.Unlock()

	doc, err := r.load()
	if err != nil {
		return 0, err
	}
	return len(doc.Accounts), nil
}

func (r *poolRepo) Add(_ context.Context, account string) error {
	r.s.poolMu.Lock()
	defer r.s.poolMu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	doc.Accounts = append(doc.Accounts, account)
	return r.s.Save(poolDocumentName, doc)
}

func (r *poolRepo) First(_ context.Context) (string, error) {
	r.s.poolMu.Lock()
	defer r.s.poolMu.Unlock()

	doc, err := r.load()
	if err != nil {
		return "", err
	}
	if len(doc.Accounts) == 0 {
		return "", store.ErrPoolEmpty
	}
	return doc.Accounts[0], nil
}

func (r *poolRepo) RemoveFirst(_ context.Context) (string, error) {
	r.s.poolMu.Lock()
	defer r.s.poolMu.Unlock()

	doc, err := r.load()
	if err != nil {
		return "", err
	}
	if len(doc.Accounts) == 0 {
		return "", store.ErrPoolEmpty
	}

	removed := doc.Accounts[0]
	doc.Accounts = doc.Accounts[1:]
	if err := r.s.Save(poolDocumentName, doc); err != nil {
		return "", err
	}
	return removed, nil
}
