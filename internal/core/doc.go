// Package core implements the collaborator services behind the collection
// pipelines. Each service fulfills the pipeline.Service contract: it takes
// named parameters, performs one unit of work (reading git metadata, calling
// the GitHub API, persisting a snapshot) and returns a structured report.
// Services never return errors directly; failures are attached to the
// returned report as error records.
package core
