package seed

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jask/sitepatrol/internal/database"
	"github.com/jask/sitepatrol/internal/database/repository"
	"github.com/jask/sitepatrol/internal/patrol"
	"github.com/jask/sitepatrol/internal/service"
)

// File is the YAML import format:
//
//	sites:
//	  - name: North Campus
//	    address: 12 Harbour Rd
//	    pointers: [Main Gate, Lobby, Roof Access]
//	    routes:
//	      - name: Night
//	        pointers: [Lobby, Roof Access]
type File struct {
	Sites []Site `yaml:"sites"`
}

type Site struct {
	Name     string   `yaml:"name"`
	Address  string   `yaml:"address"`
	Pointers []string `yaml:"pointers"`
	Routes   []Route  `yaml:"routes"`
}

// Route lists its checkpoints by label.
type Route struct {
	Name     string   `yaml:"name"`
	Remarks  string   `yaml:"remarks"`
	Pointers []string `yaml:"pointers"`
}

type Result struct {
	Sites    int
	Pointers int
	Routes   int
}

func Load(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, fmt.Errorf("decode seed file: %w", err)
	}
	for i, s := range f.Sites {
		if strings.TrimSpace(s.Name) == "" {
			return File{}, fmt.Errorf("site %d: name is required", i+1)
		}
	}
	return f, nil
}

func LoadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()
	return Load(fh)
}

// RouteID derives a stable route id so re-importing a file updates routes in
// place instead of duplicating them.
func RouteID(siteID, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("route:"+siteID+":"+name)).String()
}

// Apply writes f in one transaction. Existing sites, checkpoints and routes
// with the same names are updated.
func Apply(ctx context.Context, db *sql.DB, f File) (Result, error) {
	var res Result
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		sites := repository.NewSiteRepo(db).WithTx(tx)
		pointers := repository.NewPointerRepo(db).WithTx(tx)
		routes := repository.NewRouteRepo(db).WithTx(tx)

		for _, s := range f.Sites {
			name := strings.TrimSpace(s.Name)
			site := repository.Site{ID: database.SiteID(name), Name: name, Address: s.Address}
			if err := sites.Upsert(ctx, site); err != nil {
				return fmt.Errorf("site %s: %w", name, err)
			}
			res.Sites++

			var catalog []patrol.Pointer
			for idx, label := range s.Pointers {
				label = strings.TrimSpace(label)
				if label == "" {
					continue
				}
				id, err := pointers.Upsert(ctx, repository.Pointer{SiteID: site.ID, Label: label, SortOrder: idx})
				if err != nil {
					return fmt.Errorf("site %s pointer %s: %w", name, label, err)
				}
				catalog = append(catalog, patrol.Pointer{ID: patrol.PointerID(id), Label: label})
				res.Pointers++
			}

			for _, r := range s.Routes {
				if err := applyRoute(ctx, routes, site.ID, patrol.NewCatalog(catalog), r); err != nil {
					return fmt.Errorf("site %s route %s: %w", name, r.Name, err)
				}
				res.Routes++
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func applyRoute(ctx context.Context, routes *repository.RouteRepo, siteID string, catalog *patrol.Catalog, r Route) error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", service.ErrInvalidRoute)
	}
	ids, err := service.ResolveLabels(catalog, r.Pointers)
	if err != nil {
		return err
	}
	rt := repository.Route{
		ID:       RouteID(siteID, name),
		SiteID:   siteID,
		Name:     name,
		Remarks:  strings.TrimSpace(r.Remarks),
		Sequence: patrol.SerializeRoute(patrol.NewSequence(ids...)),
	}
	existing, err := routes.Get(ctx, rt.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		err = routes.Insert(ctx, rt)
	} else if existing.Sequence != rt.Sequence || existing.Remarks != rt.Remarks {
		_, err = routes.Update(ctx, rt)
	} else {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = routes.AddRevision(ctx, rt)
	return err
}
