package keywords

// The dictionaries are ordered. Categorize checks them in the order
// hard skills, soft skills, technical tools; everything else is an industry
// term. Reordering entries or lists changes results.

// HardSkills are job-function skills.
var HardSkills = []string{
	"project management", "data analysis", "financial analysis", "budgeting",
	"forecasting", "strategic planning", "business development", "sales",
	"marketing", "negotiation", "customer service", "quality assurance",
	"risk management", "compliance", "auditing", "recruitment", "training",
	"coaching", "mentoring", "presentation", "reporting", "scheduling",
	"coordination", "administration", "operations", "logistics", "procurement",
	"vendor management", "contract negotiation", "account management",
	"revenue management", "p&l management", "cost control", "process improvement",
	"change management", "crisis management", "event planning", "public relations",
}

// SoftSkills are interpersonal and behavioral traits.
var SoftSkills = []string{
	"leadership", "communication", "teamwork", "collaboration", "problem solving",
	"critical thinking", "adaptability", "flexibility", "creativity", "innovation",
	"time management", "multitasking", "attention to detail", "organization",
	"planning", "interpersonal", "customer focus", "empathy", "patience",
	"stress management", "conflict resolution", "decision making", "analytical",
	"proactive", "self-motivated", "reliable", "punctual", "professional",
	"ethical", "integrity", "initiative", "delegation", "motivational",
	"persuasive", "diplomatic",
}

// TechnicalTools are software, systems and platforms.
var TechnicalTools = []string{
	"microsoft office", "excel", "word", "powerpoint", "outlook", "teams",
	"sharepoint", "sap", "oracle", "salesforce", "hubspot", "jira", "asana",
	"trello", "monday", "tableau", "power bi", "sql", "python", "java",
	"javascript", "html", "css", "photoshop", "illustrator", "figma", "canva",
	"adobe", "google analytics", "crm", "erp", "pos", "ats", "hris", "workday",
	"taleo", "successfactors", "aviation", "gds", "amadeus", "sabre", "galileo",
	"dcs", "aal", "flight operations", "reservations", "ticketing", "check-in",
	"boarding", "passenger services",
}

// IndustryTerms covers aviation, hospitality and travel vocabulary. It is
// informational only: any keyword that matches none of the other lists is
// an industry term.
var IndustryTerms = []string{
	"airline", "aviation", "airport", "passenger", "flight", "aircraft", "crew",
	"cabin", "cockpit", "ground handling", "ramp", "terminal", "gate", "runway",
	"tower", "atc", "icao", "iata", "faa", "easa", "safety", "security", "sms",
	"hospitality", "hotel", "resort", "restaurant", "tourism", "travel",
	"booking", "accommodation", "concierge", "front desk", "housekeeping",
	"f&b", "banquet", "events", "conferences", "meetings", "luxury", "premium",
	"vip", "first class", "business class", "economy", "loyalty",
	"frequent flyer", "miles", "rewards", "emirates", "qatar", "etihad",
	"lufthansa", "british airways", "delta", "united",
}
