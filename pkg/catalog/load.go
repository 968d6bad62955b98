package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/goxref/pkg/catalog/gitscm"
	"github.com/yaklabco/goxref/pkg/entity"
)

// ErrInvalidCatalog is returned when a catalog file is malformed or inconsistent.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Load reads a catalog file. Relative repository paths are resolved against
// the directory of the file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	cat, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse builds a catalog from YAML. baseDir anchors relative repository paths.
func Parse(data []byte, baseDir string) (*Catalog, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse yaml: %w", ErrInvalidCatalog, err)
	}

	b := &builder{
		baseDir: baseDir,
		cat: &Catalog{
			byID:         make(map[int]*projectEntry),
			byIdentifier: make(map[string]*projectEntry),
			issues:       make(map[int]*entity.Issue),
			messages:     make(map[int]messageEntry),
			attachments:  make(map[string][]entity.Attachment),
		},
	}
	b.build(&doc)

	if err := errors.Join(b.errs...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	return b.cat, nil
}

// builder accumulates validation errors while filling a catalog.
type builder struct {
	baseDir string
	cat     *Catalog
	errs    []error
}

func (b *builder) errorf(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

func (b *builder) build(doc *document) {
	for i := range doc.Projects {
		b.addProject(&doc.Projects[i])
	}

	for _, rec := range doc.Issues {
		projectID, ok := b.projectID("issue", rec.ID, rec.Project)
		if !ok {
			continue
		}
		if _, dup := b.cat.issues[rec.ID]; dup {
			b.errorf("issue %d: duplicate id", rec.ID)
			continue
		}
		b.cat.issues[rec.ID] = &entity.Issue{
			ID:        rec.ID,
			ProjectID: projectID,
			Tracker:   rec.Tracker,
			Subject:   rec.Subject,
			Status:    entity.IssueStatus{Name: rec.Status.Name, Position: rec.Status.Position, Closed: rec.Status.Closed},
			Priority:  entity.IssuePriority{Name: rec.Priority.Name, Position: rec.Priority.Position},
			DueDate:   rec.DueDate,
		}
	}

	for _, rec := range doc.Documents {
		if projectID, ok := b.projectID("document", rec.ID, rec.Project); ok {
			b.cat.documents = append(b.cat.documents, &entity.Document{ID: rec.ID, ProjectID: projectID, Title: rec.Title})
		}
	}

	for _, rec := range doc.Versions {
		if projectID, ok := b.projectID("version", rec.ID, rec.Project); ok {
			b.cat.versions = append(b.cat.versions, &entity.Version{ID: rec.ID, ProjectID: projectID, Name: rec.Name})
		}
	}

	for _, rec := range doc.Messages {
		projectID, ok := b.projectID("message", rec.ID, rec.Project)
		if !ok {
			continue
		}
		b.cat.messages[rec.ID] = messageEntry{
			message:   &entity.Message{ID: rec.ID, BoardID: rec.Board, ParentID: rec.Parent, Subject: rec.Subject},
			projectID: projectID,
		}
	}

	for key, records := range doc.Attachments {
		list := make([]entity.Attachment, 0, len(records))
		for _, rec := range records {
			if rec.Filename == "" {
				b.errorf("attachment %d of %s: missing filename", rec.ID, key)
				continue
			}
			list = append(list, entity.Attachment{
				ID:          rec.ID,
				Filename:    rec.Filename,
				Description: rec.Description,
				CreatedOn:   rec.CreatedOn,
			})
		}
		b.cat.attachments[key] = list
	}
}

func (b *builder) addProject(rec *projectRecord) {
	switch {
	case rec.Identifier == "":
		b.errorf("project %d: missing identifier", rec.ID)
		return
	case rec.ID <= 0:
		b.errorf("project %s: id must be positive", rec.Identifier)
		return
	}
	if _, dup := b.cat.byID[rec.ID]; dup {
		b.errorf("project %s: duplicate id %d", rec.Identifier, rec.ID)
		return
	}
	if _, dup := b.cat.byIdentifier[rec.Identifier]; dup {
		b.errorf("project %s: duplicate identifier", rec.Identifier)
		return
	}

	name := rec.Name
	if name == "" {
		name = rec.Identifier
	}

	entry := &projectEntry{
		project: &entity.Project{
			ID:            rec.ID,
			Identifier:    rec.Identifier,
			Name:          name,
			HasWiki:       rec.Wiki != nil,
			HasRepository: rec.Repository != nil,
			Archived:      rec.Archived,
		},
		private: rec.Private,
	}

	if rec.Wiki != nil {
		entry.startPage = rec.Wiki.StartPage
		if entry.startPage == "" {
			entry.startPage = DefaultStartPage
		}
		entry.pages = make(map[string]*entity.WikiPage, len(rec.Wiki.Pages))
		for _, title := range rec.Wiki.Pages {
			entry.pages[pageKey(title)] = &entity.WikiPage{ProjectID: rec.ID, Title: title}
		}
	}

	if rec.Repository != nil {
		entry.changesets = b.changesets(rec)
	}

	b.cat.projects = append(b.cat.projects, entry)
	b.cat.byID[rec.ID] = entry
	b.cat.byIdentifier[rec.Identifier] = entry
}

func (b *builder) changesets(rec *projectRecord) ChangesetSource {
	repo := rec.Repository
	if repo.Git != "" {
		if len(repo.Changesets) > 0 {
			b.errorf("project %s: repository cannot list changesets and a git path", rec.Identifier)
			return nil
		}
		path := repo.Git
		if !filepath.IsAbs(path) {
			path = filepath.Join(b.baseDir, path)
		}
		source, err := gitscm.Open(path, rec.ID)
		if err != nil {
			b.errorf("project %s: %w", rec.Identifier, err)
			return nil
		}
		return source
	}

	list := make(staticChangesets, 0, len(repo.Changesets))
	for _, cs := range repo.Changesets {
		scmid := cs.Scmid
		if scmid == "" {
			scmid = cs.Revision
		}
		list = append(list, &entity.Changeset{
			ProjectID: rec.ID,
			Revision:  cs.Revision,
			Scmid:     scmid,
			Comments:  cs.Comments,
		})
	}
	return list
}

// projectID resolves the project identifier an entity refers to.
func (b *builder) projectID(kind string, id int, identifier string) (int, bool) {
	entry, ok := b.cat.byIdentifier[identifier]
	if !ok {
		b.errorf("%s %d: unknown project %q", kind, id, identifier)
		return 0, false
	}
	return entry.project.ID, true
}
