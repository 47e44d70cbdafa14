package main

import (
	"log"

	"career-coach-be/internal/model"

	"gorm.io/gorm"
)

// SeedKnowledgeDocuments populates the database with starter career guides.
// Documents are inserted with status 'pending'; the ingest worker embeds
// them once an ingest message is published for each document id.
func SeedKnowledgeDocuments(db *gorm.DB) {
	documents := []model.KnowledgeDocument{
		{
			Title:  "STAR Method for Behavioral Interviews",
			Source: "career-guides/star-method",
			Content: "The STAR method structures answers to behavioral interview questions. " +
				"Situation: set the scene with concrete context. Task: describe your responsibility. " +
				"Action: explain the specific steps you took, focusing on your own contribution. " +
				"Result: quantify the outcome where possible. Practice two or three STAR stories " +
				"per core competency so you can adapt them to unexpected questions.",
			Status: "pending",
		},
		{
			Title:  "Resume Writing Fundamentals",
			Source: "career-guides/resume-basics",
			Content: "A strong resume leads with impact, not duties. Open each bullet with an action " +
				"verb and close with a measurable result. Keep it to one page for under ten years of " +
				"experience. Tailor the skills section to the job description, since most companies " +
				"screen with keyword-based applicant tracking systems. Avoid photos, age, and marital " +
				"status unless the local market expects them.",
			Status: "pending",
		},
		{
			Title:  "Salary Negotiation Basics",
			Source: "career-guides/salary-negotiation",
			Content: "Never give the first number if you can avoid it. Research market rates for the " +
				"role and city before the conversation. Anchor on total compensation rather than base " +
				"salary alone. When you receive an offer, thank them and ask for time to consider. " +
				"Counter with a specific number backed by your research, not a range.",
			Status: "pending",
		},
	}

	for _, d := range documents {
		var existing model.KnowledgeDocument
		if err := db.Where("source = ?", d.Source).First(&existing).Error; err == nil {
			log.Printf("Document '%s' already exists, skipping...", d.Source)
			continue
		}

		if err := db.Create(&d).Error; err != nil {
			log.Printf("Error creating document '%s': %v", d.Title, err)
		} else {
			log.Printf("Created document: %s (%s)", d.Title, d.Id)
		}
	}
}
