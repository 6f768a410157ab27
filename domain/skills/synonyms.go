package skills

// synonymTable lists skills that commonly co-occur in the same toolchain.
// Lookup is symmetric: related(a, b) == related(b, a). The table is
// intentionally small; anything not covered falls through to substring and
// token-overlap similarity.
var synonymTable = map[string][]string{
	"javascript": {"js", "typescript", "react", "angular", "vue", "node.js", "nodejs"},
	"typescript": {"javascript", "react", "angular", "node.js"},
	"python":     {"django", "flask", "fastapi", "pandas", "numpy"},
	"java":       {"spring", "spring boot", "kotlin", "jvm"},
	"golang":     {"go"},
	"go":         {"golang"},
	"aws":        {"ec2", "s3", "lambda", "cloudformation", "dynamodb"},
	"azure":      {"aks", "cosmosdb"},
	"gcp":        {"bigquery", "gke", "google cloud"},
	"docker":     {"kubernetes", "containers", "podman"},
	"kubernetes": {"docker", "k8s", "helm"},
	"k8s":        {"kubernetes"},
	"sql":        {"postgresql", "postgres", "mysql", "sqlite", "mariadb"},
	"postgresql": {"sql", "postgres"},
	"nosql":      {"mongodb", "cassandra", "redis", "dynamodb"},
	"ci/cd":      {"jenkins", "github actions", "gitlab ci", "argo"},
	"terraform":  {"infrastructure as code", "pulumi", "cloudformation"},
	"ml":         {"machine learning", "tensorflow", "pytorch", "scikit-learn"},
}

// Related reports whether two normalized skills appear as a pair in the
// synonym table, in either direction.
func Related(a, b string) bool {
	for _, s := range synonymTable[a] {
		if s == b {
			return true
		}
	}
	for _, s := range synonymTable[b] {
		if s == a {
			return true
		}
	}
	return false
}
