// Package content holds the static records the site is composed from:
// packages, projects, team members, services, FAQs and city landing pages.
package content

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Site holds agency-wide contact details shown in the page shell.
type Site struct {
	Name     string `yaml:"name" json:"name,omitempty"`
	Tagline  string `yaml:"tagline" json:"tagline,omitempty"`
	Email    string `yaml:"email" json:"email,omitempty"`
	Phone    string `yaml:"phone" json:"phone,omitempty"`
	WhatsApp string `yaml:"whatsapp" json:"whatsapp,omitempty"`
	Address  string `yaml:"address" json:"address,omitempty"`
	BaseURL  string `yaml:"base_url" json:"base_url,omitempty"`
}

// Package is a fixed-price service bundle shown on the pricing page.
type Package struct {
	Name        string   `yaml:"name" json:"name,omitempty"`
	Category    string   `yaml:"category" json:"category,omitempty"`
	Price       int      `yaml:"price" json:"price,omitempty"` // whole rand
	Description string   `yaml:"description" json:"description,omitempty"`
	Features    []string `yaml:"features" json:"features,omitempty"`
	Delivery    string   `yaml:"delivery" json:"delivery,omitempty"`
	Accent      string   `yaml:"accent" json:"accent,omitempty"`
	Popular     bool     `yaml:"popular" json:"popular,omitempty"`
}

// CategoryLabel implements catalog.Categorized.
func (p Package) CategoryLabel() string { return p.Category }

var pricePrinter = message.NewPrinter(language.English)

// PriceLabel formats the price as rand with thousands separators, e.g. "R 4,999".
func (p Package) PriceLabel() string {
	return pricePrinter.Sprintf("R %d", p.Price)
}

// Project is a portfolio entry.
type Project struct {
	Slug        string   `yaml:"slug" json:"slug,omitempty"`
	Title       string   `yaml:"title" json:"title,omitempty"`
	Category    string   `yaml:"category" json:"category,omitempty"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Tags        []string `yaml:"tags" json:"tags,omitempty"`
	Year        int      `yaml:"year" json:"year,omitempty"`
	LiveURL     string   `yaml:"live_url" json:"live_url,omitempty"`
}

// CategoryLabel implements catalog.Categorized.
func (p Project) CategoryLabel() string { return p.Category }

// TeamMember is a person shown on the about and team pages.
type TeamMember struct {
	Name   string   `yaml:"name" json:"name,omitempty"`
	Role   string   `yaml:"role" json:"role,omitempty"`
	Bio    string   `yaml:"bio" json:"bio,omitempty"`
	Photo  string   `yaml:"photo" json:"photo,omitempty"`
	Skills []string `yaml:"skills" json:"skills,omitempty"`
}

// Service is one of the agency's service lines.
type Service struct {
	Slug    string   `yaml:"slug" json:"slug,omitempty"`
	Title   string   `yaml:"title" json:"title,omitempty"`
	Summary string   `yaml:"summary" json:"summary,omitempty"`
	Points  []string `yaml:"points" json:"points,omitempty"`
}

// FAQ is a question/answer pair rendered as an accordion.
type FAQ struct {
	Question string `yaml:"question" json:"question,omitempty"`
	Answer   string `yaml:"answer" json:"answer,omitempty"`
}

// City drives one location landing page.
type City struct {
	Slug            string   `yaml:"slug" json:"slug,omitempty"`
	Name            string   `yaml:"name" json:"name,omitempty"`
	Province        string   `yaml:"province" json:"province,omitempty"`
	Headline        string   `yaml:"headline" json:"headline,omitempty"`
	Intro           string   `yaml:"intro" json:"intro,omitempty"`
	MetaDescription string   `yaml:"meta_description" json:"meta_description,omitempty"`
	Areas           []string `yaml:"areas" json:"areas,omitempty"`
}

// QuoteOptions are the enumerated choices offered by the quote form.
type QuoteOptions struct {
	ProjectTypes []string `yaml:"project_types" json:"project_types,omitempty"`
	Budgets      []string `yaml:"budgets" json:"budgets,omitempty"`
	Timelines    []string `yaml:"timelines" json:"timelines,omitempty"`
}

// Content is the full, immutable content set for one site build.
type Content struct {
	Site     Site         `yaml:"site" json:"site,omitempty"`
	Packages []Package    `yaml:"packages" json:"packages,omitempty"`
	Projects []Project    `yaml:"projects" json:"projects,omitempty"`
	Team     []TeamMember `yaml:"team" json:"team,omitempty"`
	Services []Service    `yaml:"services" json:"services,omitempty"`
	FAQs     []FAQ        `yaml:"faqs" json:"faqs,omitempty"`
	Cities   []City       `yaml:"cities" json:"cities,omitempty"`
	Quote    QuoteOptions `yaml:"quote" json:"quote,omitempty"`
}
