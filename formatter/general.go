package formatter

type EditFormatter struct{}

func (f *EditFormatter) ResultTemplate() string {
	return `{{header .Kind .Class .Filename -}}
{{range .Changes}}{{change .}}{{end}}
`
}

type QuietFormatter struct{}

func (f *QuietFormatter) ResultTemplate() string {
	return `{{header .Kind .Class .Filename}}
`
}

type FailureFormatter struct{}

func (f *FailureFormatter) ResultTemplate() string {
	return `{{header .Kind .Class .Filename -}}
{{message .Error}}
`
}
