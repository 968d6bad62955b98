package catalog

import "time"

// document is the on-disk layout of a catalog file.
type document struct {
	Projects    []projectRecord               `yaml:"projects"`
	Issues      []issueRecord                 `yaml:"issues"`
	Documents   []documentRecord              `yaml:"documents"`
	Versions    []versionRecord               `yaml:"versions"`
	Messages    []messageRecord               `yaml:"messages"`
	Attachments map[string][]attachmentRecord `yaml:"attachments"`
}

type projectRecord struct {
	ID         int               `yaml:"id"`
	Identifier string            `yaml:"identifier"`
	Name       string            `yaml:"name"`
	Private    bool              `yaml:"private"`
	Archived   bool              `yaml:"archived"`
	Wiki       *wikiRecord       `yaml:"wiki"`
	Repository *repositoryRecord `yaml:"repository"`
}

type wikiRecord struct {
	// StartPage defaults to "Wiki".
	StartPage string   `yaml:"start_page"`
	Pages     []string `yaml:"pages"`
}

type repositoryRecord struct {
	// Git is the path of a local git repository, relative to the catalog file.
	Git        string            `yaml:"git"`
	Changesets []changesetRecord `yaml:"changesets"`
}

type changesetRecord struct {
	Revision string `yaml:"revision"`
	Scmid    string `yaml:"scmid"`
	Comments string `yaml:"comments"`
}

type issueRecord struct {
	ID       int            `yaml:"id"`
	Project  string         `yaml:"project"`
	Tracker  string         `yaml:"tracker"`
	Subject  string         `yaml:"subject"`
	Status   statusRecord   `yaml:"status"`
	Priority priorityRecord `yaml:"priority"`
	DueDate  time.Time      `yaml:"due_date"`
}

type statusRecord struct {
	Name     string `yaml:"name"`
	Position int    `yaml:"position"`
	Closed   bool   `yaml:"closed"`
}

type priorityRecord struct {
	Name     string `yaml:"name"`
	Position int    `yaml:"position"`
}

type documentRecord struct {
	ID      int    `yaml:"id"`
	Project string `yaml:"project"`
	Title   string `yaml:"title"`
}

type versionRecord struct {
	ID      int    `yaml:"id"`
	Project string `yaml:"project"`
	Name    string `yaml:"name"`
}

type messageRecord struct {
	ID      int    `yaml:"id"`
	Project string `yaml:"project"`
	Board   int    `yaml:"board"`
	Parent  int    `yaml:"parent"`
	Subject string `yaml:"subject"`
}

type attachmentRecord struct {
	ID          int       `yaml:"id"`
	Filename    string    `yaml:"filename"`
	Description string    `yaml:"description"`
	CreatedOn   time.Time `yaml:"created_on"`
}
