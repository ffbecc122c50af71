package maintenance

import "fmt"

// Failure is a single validation problem, keyed by the attribute path of the
// offending result entry (results.<index>.<field>).
type Failure struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// FailFunc receives each failure as it is found.
type FailFunc func(path, message string)

// Validator checks submitted results against a template. It only reads the
// task index built at construction, so one Validator may serve concurrent
// submissions.
type Validator struct {
	tasks map[string]Task
}

func NewValidator(tasks []Task) *Validator {
	idx := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		idx[t.Label] = t
	}
	return &Validator{tasks: idx}
}

// Validate reports every missing result or photo of a mandatory task that
// appears in results. Entries referencing unknown labels are skipped, and
// mandatory tasks absent from results are not reported.
func (v *Validator) Validate(results []Result, fail FailFunc) {
	for i, r := range results {
		if r.TaskLabel == nil {
			continue
		}
		task, ok := v.tasks[*r.TaskLabel]
		if !ok || !task.Options.IsMandatory {
			continue
		}
		if r.Result == nil {
			fail(fmt.Sprintf("results.%d.result", i),
				fmt.Sprintf(`A result is required for the mandatory task: "%s".`, task.Label))
		}
		if task.Options.PhotoRequired && len(r.Photos) == 0 {
			fail(fmt.Sprintf("results.%d.photos", i),
				fmt.Sprintf(`A photo is required for the mandatory task: "%s".`, task.Label))
		}
	}
}

// Check runs Validate and returns the failures in the order they were found.
func (v *Validator) Check(results []Result) []Failure {
	var out []Failure
	v.Validate(results, func(path, message string) {
		out = append(out, Failure{Path: path, Message: message})
	})
	return out
}

// Group folds failures into path -> messages, the shape form errors are rendered in.
func Group(failures []Failure) map[string][]string {
	if len(failures) == 0 {
		return nil
	}
	out := make(map[string][]string, len(failures))
	for _, f := range failures {
		out[f.Path] = append(out[f.Path], f.Message)
	}
	return out
}
