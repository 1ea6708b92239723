package domain

// Default credentials seeded on first read when none are stored.
const (
	DefaultUsername = "admin"
	DefaultPassword = "password123"
)

var defaultPortfolio = Portfolio{
	PersonalInfo: PersonalInfo{
		Name:            "Alex Rivera",
		Tagline:         "Backend Engineer • Distributed Systems & Automation",
		Intro:           "I build **dependable software infrastructure**: services that stay fast under load, pipelines that run themselves and tools that make other engineers faster.",
		Email:           "alex.rivera@example.com",
		LinkedIn:        "https://linkedin.com/in/alex-rivera",
		GitHub:          "https://github.com/alex-rivera",
		Location:        "Lisbon, Portugal",
		ProfileImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?auto=format&fit=crop&q=80&w=800",
	},
	Projects: []Project{
		{
			ID:           "1",
			Title:        "Tidewater Geo Index",
			Description:  "A geospatial search service for property data that clusters 100k+ live points into map tiles with sub-100ms responses.",
			Technologies: []string{"Go", "PostGIS", "Redis", "Mapbox GL"},
			Features: []string{
				"Tile clustering computed at ingest time",
				"Incremental index rebuilds without downtime",
				"Per-agency data isolation",
			},
			Learning: "Precomputing clusters moved most of the cost out of the request path.",
			ImageURL: "https://images.unsplash.com/photo-1560518883-ce09059eeffa?auto=format&fit=crop&q=80&w=1200",
		},
		{
			ID:           "2",
			Title:        "Ledgerline",
			Description:  "A transactional ledger core with idempotent writes and live balance streaming over WebSockets.",
			Technologies: []string{"Go", "PostgreSQL", "WebSockets", "NATS"},
			Features: []string{
				"Idempotency keys on every mutation",
				"Streaming balance updates",
				"Nightly reconciliation reports",
			},
			Learning: "Designing for replay made incident recovery a routine operation.",
			ImageURL: "https://images.unsplash.com/photo-1518133835878-5a93cc3f89e5?auto=format&fit=crop&q=80&w=1200",
		},
		{
			ID:           "3",
			Title:        "Beacon Observability",
			Description:  "A QA dashboard that joins CI metrics, error reports and test results into one view for release decisions.",
			Technologies: []string{"TypeScript", "D3.js", "Docker", "Sentry API"},
			Features: []string{
				"Pipeline health tracking",
				"Regression trend charts",
				"Grouped incident alerts",
			},
			Learning: "Clustering similar alerts cut the noise teams had learned to ignore.",
			ImageURL: "https://images.unsplash.com/photo-1551288049-bbbda5366392?auto=format&fit=crop&q=80&w=1200",
		},
	},
	Skills: []SkillGroup{
		{
			Category: "System Architecture",
			Icon:     "fa-layer-group",
			Skills:   []string{"Distributed Systems", "API Design", "Caching", "Event Streaming"},
		},
		{
			Category: "Core Engine",
			Icon:     "fa-code",
			Skills:   []string{"Go", "Python", "TypeScript", "PostgreSQL", "Redis"},
		},
		{
			Category: "Infrastructure",
			Icon:     "fa-cloud",
			Skills:   []string{"Docker", "Kubernetes", "AWS", "Terraform", "CI/CD"},
		},
	},
	Experience: []Experience{
		{
			Company: "Northwind Labs",
			Role:    "Senior Backend Engineer",
			Period:  "2023 - PRESENT",
			Responsibilities: []string{
				"Leading the split of a monolith into independently deployed services.",
				"Owning the ingestion pipeline for partner data feeds.",
			},
			Achievements: []string{
				"Raised ingestion throughput by 40% with batched writes and better indexes.",
				"Introduced contract tests that cut integration regressions by half.",
			},
		},
		{
			Company: "Independent Consultant",
			Role:    "Software Engineer",
			Period:  "2021 - 2023",
			Responsibilities: []string{
				"Built automation and data collection tools for research firms.",
			},
			Achievements: []string{
				"Automated reporting workflows, saving clients 120+ hours per month.",
			},
		},
	},
	Education: []EducationEntry{
		{Title: "Applied System Architecture", Detail: "Self-directed study of horizontal scaling and data partitioning."},
		{Title: "Production Engineering", Detail: "4+ years shipping and operating backend services."},
	},
}

// DefaultPortfolio returns a fresh deep copy of the built-in content.
func DefaultPortfolio() *Portfolio {
	p := defaultPortfolio.Clone()
	p.Normalize()
	return p
}

// DefaultCredentials returns the built-in admin credentials.
func DefaultCredentials() *Credentials {
	return &Credentials{Username: DefaultUsername, Password: DefaultPassword}
}
