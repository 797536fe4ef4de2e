package requirements

var defaultCatalog = New(CurrentVersion, defaultRoles...)

// Default returns the shared built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// defaultRoles merges the field-level roles used for self-rated gap analysis
// with the job-title roles used for resume readiness.
var defaultRoles = []Role{
	// Career fields
	{
		Name:    "Software Engineering",
		Aliases: []string{"Software Engineer", "SWE"},
		Skills: map[string]int{
			"Programming Languages": 9,
			"System Design":         8,
			"Problem Solving":       9,
			"Testing & Debugging":   8,
			"Version Control":       8,
			"Communication":         7,
			"Teamwork":              8,
		},
	},
	{
		Name:    "Data Science",
		Aliases: []string{"Data Analytics"},
		Skills: map[string]int{
			"Python":             9,
			"Statistics":         9,
			"Data Analysis":      9,
			"Machine Learning":   8,
			"SQL":                8,
			"Data Visualization": 8,
			"Communication":      7,
			"Domain Knowledge":   7,
		},
	},
	{
		Name:    "Product Management",
		Aliases: []string{"Product Manager", "PM"},
		Skills: map[string]int{
			"Strategic Thinking":     9,
			"Communication":          9,
			"Data Analysis":          8,
			"User Research":          8,
			"Leadership":             8,
			"Business Acumen":        8,
			"Problem Solving":        8,
			"Stakeholder Management": 8,
		},
	},
	{
		Name:    "UX/UI Design",
		Aliases: []string{"UX Design", "UI Design", "Product Design"},
		Skills: map[string]int{
			"Design Tools":      9,
			"User Research":     8,
			"Wireframing":       8,
			"Visual Design":     9,
			"Prototyping":       8,
			"Communication":     8,
			"Problem Solving":   8,
			"Creative Thinking": 9,
		},
	},
	{
		Name: "DevOps",
		Skills: map[string]int{
			"Linux/Unix":                9,
			"Containerization (Docker)": 9,
			"Cloud Platforms":           9,
			"Scripting":                 8,
			"CI/CD Pipelines":           9,
			"Monitoring & Logging":      8,
			"Infrastructure as Code":    8,
			"Security Awareness":        8,
		},
	},
	{
		Name:    "Cloud Architecture",
		Aliases: []string{"Cloud"},
		Skills: map[string]int{
			"AWS/Azure/GCP":       9,
			"Architecture Design": 9,
			"Networking":          8,
			"Security":            9,
			"Scalability":         8,
			"Cost Optimization":   8,
			"Problem Solving":     8,
			"Communication":       7,
		},
	},
	{
		Name:    "Machine Learning",
		Aliases: []string{"AI/ML"},
		Skills: map[string]int{
			"Python":                      9,
			"Mathematics":                 9,
			"Machine Learning Algorithms": 9,
			"Deep Learning":               8,
			"Data Preprocessing":          8,
			"Model Evaluation":            8,
			"Problem Solving":             9,
			"Statistics":                  9,
		},
	},
	{
		Name:    "Full Stack Web Dev",
		Aliases: []string{"Web Development", "Full Stack"},
		Skills: map[string]int{
			"Frontend (React/Vue/Angular)": 8,
			"Backend (Node/Python/Java)":   8,
			"Databases":                    8,
			"APIs & Integration":           8,
			"Version Control":              8,
			"Problem Solving":              8,
			"Communication":                7,
			"Testing":                      7,
		},
	},
	{
		Name:    "Mobile Development",
		Aliases: []string{"Mobile"},
		Skills: map[string]int{
			"Mobile Framework (React Native/Flutter)": 9,
			"Programming Languages":                   8,
			"UI/UX Principles":                        8,
			"APIs & Backend":                          8,
			"Testing":                                 7,
			"Performance Optimization":                8,
			"Problem Solving":                         8,
			"Communication":                           7,
		},
	},

	// Job titles
	{
		Name: "Cloud Architect",
		Skills: map[string]int{
			"AWS":               9,
			"Kubernetes":        8,
			"Terraform":         8,
			"System Design":     9,
			"Security":          8,
			"Cost Optimization": 7,
			"Networking":        8,
			"Database Design":   7,
			"DevOps":            8,
			"Leadership":        7,
		},
	},
	{
		Name: "Data Scientist",
		Skills: map[string]int{
			"Python":             9,
			"Machine Learning":   9,
			"Statistics":         9,
			"SQL":                8,
			"Data Visualization": 8,
			"Deep Learning":      7,
			"PyTorch/Tensorflow": 8,
			"Big Data":           7,
			"Data Engineering":   7,
			"Communication":      8,
		},
	},
	{
		Name:    "DevOps Engineer",
		Aliases: []string{"SRE", "Site Reliability Engineer"},
		Skills: map[string]int{
			"Docker":                 9,
			"Kubernetes":             9,
			"CI/CD":                  9,
			"Linux":                  9,
			"AWS":                    8,
			"Infrastructure as Code": 9,
			"Monitoring":             8,
			"Scripting":              8,
			"Networking":             7,
			"Security":               8,
		},
	},
	{
		Name:    "Full Stack Developer",
		Aliases: []string{"Full Stack Engineer"},
		Skills: map[string]int{
			"React":           8,
			"Node.js":         8,
			"JavaScript":      9,
			"Databases":       8,
			"APIs":            8,
			"HTML/CSS":        8,
			"Git":             7,
			"Testing":         7,
			"Problem Solving": 9,
			"Communication":   7,
		},
	},
	{
		Name:    "Machine Learning Engineer",
		Aliases: []string{"ML Engineer", "MLE"},
		Skills: map[string]int{
			"Python":             9,
			"Machine Learning":   9,
			"Deep Learning":      8,
			"Statistics":         9,
			"PyTorch":            8,
			"TensorFlow":         8,
			"Data Preprocessing": 8,
			"Model Deployment":   7,
			"Big Data":           7,
			"Mathematics":        9,
		},
	},
}
