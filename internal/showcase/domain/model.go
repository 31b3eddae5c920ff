package domain

// Project statuses as they appear in the JSON records.
const (
	StatusLive    = "live"
	StatusDemo    = "demo"
	StatusPending = "pending"
	StatusWIP     = "wip"
)

// Arkiv feature flags a project may declare in UsesArkiv.
const (
	FeatureAnnotations = "annotations"
	FeatureBTL         = "btl"
	FeaturePOW         = "pow"
	FeatureQuery       = "query"
	FeatureStorage     = "storage"
)

// TechStack breaks down the technologies a project is built with.
type TechStack struct {
	Frontend []string `json:"frontend"`
	Backend  []string `json:"backend"`
	Identity []string `json:"identity,omitempty"`
	Infra    []string `json:"infra,omitempty"`
}

// SampleCode is an optional code snippet shown on the detail page.
type SampleCode struct {
	Lang string `json:"lang"`
	Code string `json:"code"`
}

// Metrics holds optional self-reported usage numbers.
type Metrics struct {
	Users     int `json:"users,omitempty"`
	ReqPerDay int `json:"reqPerDay,omitempty"`
	P95Ms     int `json:"p95ms,omitempty"`
	StorageMB int `json:"storageMB,omitempty"`
}

// Author credits a project contributor.
type Author struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

// Project is a single showcase entry. The JSON field names match the record
// files under content/, so published and pending records round-trip as-is.
// Slug is unique across published projects and immutable once published; a
// pending record and its eventual published record share the same slug.
type Project struct {
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Tagline      string          `json:"tagline"`
	Category     []string        `json:"category"`
	Status       string          `json:"status"`
	LiveURL      string          `json:"liveUrl,omitempty"`
	RepoURL      string          `json:"repoUrl,omitempty"`
	Chains       []string        `json:"chains,omitempty"`
	UsesArkiv    map[string]bool `json:"usesArkiv,omitempty"`
	GolemDetails string          `json:"golemDetails,omitempty"`
	SampleCode   *SampleCode     `json:"sampleCode,omitempty"`
	TechStack    TechStack       `json:"techStack"`
	Metrics      *Metrics        `json:"metrics,omitempty"`
	Screens      []string        `json:"screens"`
	ArchDiagram  string          `json:"archDiagram,omitempty"`
	Authors      []Author        `json:"authors,omitempty"`
	OpenSource   bool            `json:"openSource,omitempty"`
	Description  string          `json:"description,omitempty"`

	// Timestamps are ISO-8601 strings; list ordering compares them lexically.
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	SubmittedAt string `json:"submittedAt,omitempty"`
	ApprovedAt  string `json:"approvedAt,omitempty"`

	Approved bool   `json:"approved"`
	Email    string `json:"email,omitempty"`
}
