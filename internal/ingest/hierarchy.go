package ingest

import (
	"context"
	"fmt"
	"strconv"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

// maxChainDepth bounds the parent walk. The feed does not promise the
// ownership graph is acyclic, and real conglomerate chains are far shorter
// than this.
const maxChainDepth = 25

// ChainResolver ingests a production company together with its ownership
// ancestry. It walks company -> parent until it reaches a company with no
// parent, one that is already persisted, the depth bound, or a cycle, then
// persists the collected chain top-down so every parent row exists before a
// child references it.
type ChainResolver struct {
	fetcher *Fetcher
	gate    *Gate
	loader  *Loader
	log     *logger.Logger
}

func NewChainResolver(fetcher *Fetcher, gate *Gate, loader *Loader, log *logger.Logger) *ChainResolver {
	return &ChainResolver{
		fetcher: fetcher,
		gate:    gate,
		loader:  loader,
		log:     log.With("component", "ChainResolver"),
	}
}

// Resolve makes company companyID and its ancestry present in the stores.
// Returns immediately when the company is already known.
func (r *ChainResolver) Resolve(ctx context.Context, companyID int64) error {
	known, err := r.gate.Known(ctx, KindCompany, strconv.FormatInt(companyID, 10))
	if err != nil {
		return err
	}
	if known {
		return nil
	}

	chain, err := r.collectChain(ctx, companyID)
	if err != nil {
		return err
	}
	return r.persistChain(ctx, chain)
}

// collectChain walks upward from companyID gathering details for every
// company not yet persisted, leaf first.
func (r *ChainResolver) collectChain(ctx context.Context, companyID int64) ([]*tmdb.CompanyDetails, error) {
	var chain []*tmdb.CompanyDetails
	visited := map[int64]bool{}

	current := companyID
	for depth := 0; depth < maxChainDepth; depth++ {
		if visited[current] {
			r.log.Warn("ownership cycle detected, truncating chain",
				"company_id", companyID, "repeated_id", current)
			return chain, nil
		}
		visited[current] = true

		details, err := r.fetcher.Company(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("company %d in chain of %d: %w", current, companyID, err)
		}
		chain = append(chain, details)

		if details.ParentCompany == nil || details.ParentCompany.ID == 0 {
			return chain, nil
		}
		parent := details.ParentCompany.ID

		known, err := r.gate.Known(ctx, KindCompany, strconv.FormatInt(parent, 10))
		if err != nil {
			return nil, err
		}
		if known {
			return chain, nil
		}
		current = parent
	}

	r.log.Warn("ownership chain exceeded depth bound, truncating",
		"company_id", companyID, "depth", maxChainDepth)
	return chain, nil
}

// persistChain writes the chain in reverse discovery order: the topmost
// ancestor first, the requested company last. Parent and origin-country edges
// follow once all nodes are in place.
func (r *ChainResolver) persistChain(ctx context.Context, chain []*tmdb.CompanyDetails) error {
	for i := len(chain) - 1; i >= 0; i-- {
		company := NormalizeCompany(chain[i])
		// The final chain member's parent may have been cut by the depth or
		// cycle bound; do not reference a row that was never written.
		if i == len(chain)-1 && company.ParentCompanyID != nil {
			known, err := r.gate.Known(ctx, KindCompany, strconv.FormatInt(*company.ParentCompanyID, 10))
			if err != nil {
				return err
			}
			if !known {
				company.ParentCompanyID = nil
			}
		}
		if _, err := r.loader.Entity(ctx, EntityRecord{Kind: KindCompany, Company: company}); err != nil {
			return err
		}
	}

	for _, details := range chain {
		company := NormalizeCompany(details)
		if company.ParentCompanyID != nil {
			known, err := r.gate.Known(ctx, KindCompany, strconv.FormatInt(*company.ParentCompanyID, 10))
			if err != nil {
				return err
			}
			if known {
				err := r.loader.Relationship(ctx, RelationshipRecord{
					Kind:          RelCompanyParent,
					CompanyParent: &CompanyParent{CompanyID: company.ID, ParentID: *company.ParentCompanyID},
				})
				if err != nil {
					return err
				}
			}
		}
		if company.CountryID != nil {
			if err := r.ensureCountry(ctx, *company.CountryID); err != nil {
				return err
			}
			err := r.loader.Relationship(ctx, RelationshipRecord{
				Kind:           RelCompanyCountry,
				CompanyCountry: &CompanyCountry{CompanyID: company.ID, CountryID: *company.CountryID},
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureCountry writes a minimal country row when the code has not been seen
// via any movie's production countries yet. The company payload only carries
// the ISO code, so the name falls back to the code; the code is the identity
// either way.
func (r *ChainResolver) ensureCountry(ctx context.Context, countryID string) error {
	known, err := r.gate.Known(ctx, KindCountry, countryID)
	if err != nil {
		return err
	}
	if known {
		return nil
	}
	_, err = r.loader.Entity(ctx, EntityRecord{
		Kind:    KindCountry,
		Country: &types.Country{ID: countryID, Name: countryID},
	})
	return err
}
