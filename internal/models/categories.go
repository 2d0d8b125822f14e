package models

import "strings"

// Category is a skill category from the static taxonomy.
type Category string

// Categories lists every category the backend accepts, grouped by area.
var Categories = []Category{
	// Technology & Programming
	"Web Development", "Mobile App Development", "Software Engineering", "Data Science", "Artificial Intelligence",
	"Machine Learning", "Cybersecurity", "Cloud Computing", "DevOps", "Database Management",
	"UI/UX Design", "Game Development", "Blockchain", "IoT Development", "System Administration",

	// Creative & Design
	"Graphic Design", "Video Editing", "Photography", "Digital Art", "Animation",
	"Content Writing", "Copywriting", "Social Media Management", "Brand Strategy", "Logo Design",
	"Web Design", "Print Design", "Illustration", "3D Modeling", "Audio Production",

	// Business & Finance
	"Business Strategy", "Marketing", "Sales", "Accounting", "Financial Planning",
	"Project Management", "Product Management", "Operations Management", "Supply Chain", "Consulting",
	"Market Research", "Investment Advice", "Tax Preparation", "Bookkeeping", "Business Analytics",

	// Education & Training
	"Tutoring", "Language Teaching", "Online Course Creation", "Curriculum Development", "Academic Writing",
	"Exam Preparation", "Skills Training", "Professional Development", "Corporate Training", "Educational Technology",
	"Research Assistance", "Thesis Writing", "Presentation Skills", "Study Techniques", "Career Counseling",

	// Health & Wellness
	"Fitness Training", "Nutrition Counseling", "Mental Health Support", "Yoga Instruction", "Meditation Guidance",
	"Physical Therapy", "Life Coaching", "Wellness Coaching", "Stress Management", "Sleep Optimization",
	"Diet Planning", "Exercise Programs", "Mindfulness Training", "Addiction Recovery", "Health Education",

	// Home & Lifestyle
	"Home Improvement", "Interior Design", "Gardening", "Cooking", "Cleaning Services",
	"Handyman Services", "Electrical Work", "Plumbing", "Carpentry", "Painting",
	"Landscaping", "Pet Care", "Childcare", "Elder Care", "Event Planning",

	// Transportation & Logistics
	"Driving Lessons", "Vehicle Maintenance", "Moving Services", "Delivery Services", "Travel Planning",
	"Logistics Coordination", "Transportation Services", "Car Repair", "Bike Maintenance", "Navigation Help",

	// Arts & Crafts
	"Music Lessons", "Art Classes", "Crafting", "Jewelry Making", "Pottery",
	"Woodworking", "Sewing", "Knitting", "Embroidery", "Painting Classes",
	"Dance Lessons", "Theater Arts", "Creative Writing", "Poetry", "Storytelling",

	// Language & Communication
	"Translation Services", "Interpretation", "Public Speaking", "Communication Skills", "Presentation Design",
	"Technical Writing", "Proofreading", "Editing Services", "Voice Training", "Interview Preparation",

	// Legal & Administrative
	"Legal Advice", "Document Preparation", "Notary Services", "Immigration Help", "Contract Review",
	"Administrative Support", "Data Entry", "Virtual Assistant", "Research Services", "Government Forms",

	// Miscellaneous
	"Event Photography", "Wedding Planning", "Relationship Counseling", "Spiritual Guidance", "Community Organizing",
	"Volunteer Coordination", "Fundraising", "Grant Writing", "Non-profit Management", "Other",
}

var categoryIndex = func() map[string]Category {
	idx := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		idx[strings.ToLower(string(c))] = c
	}
	return idx
}()

// ValidCategory reports whether c is part of the taxonomy.
func ValidCategory(c Category) bool {
	known, ok := categoryIndex[strings.ToLower(string(c))]
	return ok && known == c
}

// ParseCategory resolves user input case-insensitively to a taxonomy entry.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryIndex[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}
