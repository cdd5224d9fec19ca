package keywords

// DefaultLexiconFile returns the built-in word lists. Callers get a fresh copy.
func DefaultLexiconFile() LexiconFile {
	return LexiconFile{
		Stopwords: append([]string(nil), defaultStopwords...),
		Technical: append([]string(nil), defaultTechnical...),
		Soft:      append([]string(nil), defaultSoft...),
		MinLength: DefaultMinLength,
	}
}

var defaultStopwords = []string{
	"a", "about", "above", "after", "again", "all", "also", "am", "an", "and", "any",
	"are", "as", "at", "be", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "could", "did", "do", "does", "doing", "down", "during", "each",
	"e.g", "etc", "few", "for", "from", "further", "had", "has", "have", "having", "he", "her",
	"here", "him", "his", "how", "i", "i.e", "if", "in", "into", "is", "it", "its", "itself",
	"just", "me", "more", "most", "must", "my", "no", "nor", "not", "now", "of", "off",
	"on", "once", "only", "or", "other", "our", "ours", "out", "over", "own", "same",
	"she", "should", "so", "some", "such", "than", "that", "the", "their", "them",
	"then", "there", "these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "us", "very", "was", "we", "were", "what", "when", "where", "which",
	"while", "who", "whom", "why", "will", "with", "would", "you", "your", "yours",
	// job posting filler
	"ability", "able", "candidate", "candidates", "company", "experience", "ideal",
	"including", "join", "looking", "new", "plus", "preferred", "required", "requirements",
	"responsibilities", "role", "seeking", "strong", "well", "work", "working", "years",
}

var defaultTechnical = []string{
	"python", "java", "javascript", "typescript", "go", "rust", "c++", "c#", "ruby", "php", ".net",
	"scala", "kotlin", "swift", "bash", "sql", "nosql", "postgresql", "mysql", "sqlite",
	"mongodb", "redis", "kafka", "rabbitmq", "elasticsearch", "graphql", "grpc", "rest",
	"api", "microservices", "html", "css", "react", "vue", "angular", "node.js", "django",
	"flask", "fastapi", "spring", "aws", "azure", "google cloud", "lambda", "s3", "ec2",
	"docker", "kubernetes", "terraform", "ansible", "jenkins", "git", "github", "gitlab",
	"linux", "ci/cd", "devops", "machine learning", "deep learning", "data science",
	"tensorflow", "pytorch", "pandas", "numpy", "nlp", "ai", "spark", "hadoop", "airflow",
	"tableau", "excel", "agile", "scrum", "latex", "backend", "frontend", "distributed systems",
}

var defaultSoft = []string{
	"communication", "leadership", "teamwork", "collaboration", "problem solving",
	"critical thinking", "time management", "adaptability", "creativity", "mentoring",
	"ownership", "organization", "interpersonal", "presentation", "negotiation",
	"attention to detail", "self-motivated", "initiative", "empathy", "accountability",
}
