package platform

import (
	"regexp"

	"ghostjob-engine/internal/parse/strategy"
)

// Defaults returns the built-in platform profiles, ordered roughly by trust.
// Selector lists were collected from live board markup; keep them additive.
// A stale selector costs one goquery miss, a removed one costs a field.
func Defaults() []*Profile {
	return []*Profile{
		{
			Name:           "greenhouse",
			Version:        "2.1.0",
			SelfConfidence: 0.90,
			HostPatterns:   []string{"greenhouse.io"},
			Selectors: strategy.Selectors{
				Title:       []string{".app-title", "h1.section-header", "h1"},
				Company:     []string{".company-name", "[data-mapped='company']"},
				Location:    []string{".location", ".job__location", "[data-mapped='location']"},
				Description: []string{"#content", ".job__description", "#job_description"},
				Salary:      []string{".pay-range", "[data-mapped='pay']"},
			},
		},
		{
			Name:           "lever",
			Version:        "2.1.0",
			SelfConfidence: 0.90,
			HostPatterns:   []string{"lever.co"},
			Selectors: strategy.Selectors{
				Title:       []string{".posting-headline h2", "h2", "h1"},
				Company:     []string{".main-header-logo img[alt]", ".posting-headline .company"},
				Location:    []string{".posting-categories .location", ".sort-by-time.posting-category", ".location"},
				Description: []string{".section-wrapper .section", "[data-qa='job-description']"},
				Salary:      []string{".salary-range"},
			},
		},
		{
			Name:           "workday",
			Version:        "2.0.1",
			SelfConfidence: 0.85,
			HostPatterns:   []string{"myworkdayjobs.com", "workday.com"},
			Selectors: strategy.Selectors{
				Title:       []string{"[data-automation-id='jobPostingHeader']", "h1"},
				Company:     []string{"[data-automation-id='company']"},
				Location:    []string{"[data-automation-id='locations']", "[data-automation-id='location']"},
				Description: []string{"[data-automation-id='jobPostingDescription']"},
			},
		},
		{
			Name:           "smartrecruiters",
			Version:        "2.0.1",
			SelfConfidence: 0.85,
			HostPatterns:   []string{"smartrecruiters.com"},
			Selectors: strategy.Selectors{
				Title:       []string{"h1.job-title", "[itemprop='title']", "h1"},
				Company:     []string{"[itemprop='hiringOrganization']", ".company-name"},
				Location:    []string{"[itemprop='jobLocation']", "spl-job-location", ".job-location"},
				Description: []string{"[itemprop='description']", ".job-sections"},
			},
		},
		{
			Name:           "linkedin",
			Version:        "2.2.0",
			SelfConfidence: 0.85,
			HostPatterns:   []string{"linkedin.com"},
			Selectors: strategy.Selectors{
				Title:       []string{".top-card-layout__title", ".job-details-jobs-unified-top-card__job-title", "h1"},
				Company:     []string{".topcard__org-name-link", ".job-details-jobs-unified-top-card__company-name", "a.topcard__org-name-link"},
				Location:    []string{".topcard__flavor--bullet", ".job-details-jobs-unified-top-card__bullet"},
				Description: []string{".show-more-less-html__markup", ".description__text"},
				Salary:      []string{".salary", ".compensation__salary"},
			},
		},
		{
			Name:           "indeed",
			Version:        "2.0.0",
			SelfConfidence: 0.80,
			HostPatterns:   []string{"indeed."},
			Selectors: strategy.Selectors{
				Title:       []string{"h1.jobsearch-JobInfoHeader-title", "[data-testid='jobsearch-JobInfoHeader-title']", "h1"},
				Company:     []string{"[data-testid='inlineHeader-companyName']", "[data-company-name]"},
				Location:    []string{"[data-testid='inlineHeader-companyLocation']", "[data-testid='job-location']"},
				Description: []string{"#jobDescriptionText"},
				Salary:      []string{"#salaryInfoAndJobType", "[data-testid='attribute_snippet_testid']"},
			},
		},
		{
			Name:           "company-careers",
			Version:        "1.4.0",
			SelfConfidence: 0.75,
			HostPatterns:   []string{"careers.", "jobs."},
			Selectors: strategy.Selectors{
				Title:       []string{"h1", ".job-title", "[class*='job-title']"},
				Company:     []string{".company", "[class*='company-name']"},
				Location:    []string{".location", "[class*='location']", "[data-testid='location']"},
				Description: []string{".job-description", "[class*='description']", "article", "main"},
			},
			Patterns: strategy.FieldPatterns{
				"location": []*regexp.Regexp{
					regexp.MustCompile(`(?im)^\s*(?:Office|Based in)[:\s]+(.{2,60})$`),
				},
			},
		},
	}
}

// Generic is the fallback parser: lowest-trust strategies only, handles any
// URL, and always returns some result even for unrecognized markup.
func Generic() *Profile {
	return &Profile{
		Name:           "generic",
		Version:        "1.0.0",
		SelfConfidence: 0.50,
		LowTrustOnly:   true,
		CatchAll:       true,
	}
}
