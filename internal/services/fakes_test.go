package services

import (
	"context"
	"fmt"
	"sync"

	"alfredoptarigan/cv-tailor/internal/models"
	"alfredoptarigan/cv-tailor/internal/repositories"
)

type fakeCVRepo struct {
	cvs map[uint]*models.CV
	err error
}

func (f *fakeCVRepo) Create(cv *models.CV) error {
	if f.cvs == nil {
		f.cvs = map[uint]*models.CV{}
	}
	cv.ID = uint(len(f.cvs) + 1)
	f.cvs[cv.ID] = cv
	return nil
}

func (f *fakeCVRepo) FindByID(id uint) (*models.CV, error) {
	if f.err != nil {
		return nil, f.err
	}
	cv, ok := f.cvs[id]
	if !ok {
		return nil, fmt.Errorf("cv %d: %w", id, repositories.ErrRecordNotFound)
	}
	return cv, nil
}

func (f *fakeCVRepo) FindAll() ([]models.CV, error) {
	var out []models.CV
	for _, cv := range f.cvs {
		out = append(out, *cv)
	}
	return out, nil
}

type fakeJobRepo struct {
	jobs map[uint]*models.Job
}

func (f *fakeJobRepo) Create(job *models.Job) error {
	if f.jobs == nil {
		f.jobs = map[uint]*models.Job{}
	}
	job.ID = uint(len(f.jobs) + 1)
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) FindByID(id uint) (*models.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %d: %w", id, repositories.ErrRecordNotFound)
	}
	return job, nil
}

func (f *fakeJobRepo) FindAll() ([]models.Job, error) {
	var out []models.Job
	for _, job := range f.jobs {
		out = append(out, *job)
	}
	return out, nil
}

type fakeAnalysisRepo struct {
	mu      sync.Mutex
	records []*models.CVAnalysis
	err     error
	writes  int
}

func (f *fakeAnalysisRepo) Create(analysis *models.CVAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.err != nil {
		return f.err
	}
	analysis.ID = uint(len(f.records) + 1)
	f.records = append(f.records, analysis)
	return nil
}

func (f *fakeAnalysisRepo) FindByID(id uint) (*models.CVAnalysis, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (f *fakeAnalysisRepo) FindByPair(filter repositories.AnalysisFilter, limit int) ([]models.CVAnalysis, error) {
	var out []models.CVAnalysis
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if filter.CVID != 0 && r.CVID != filter.CVID {
			continue
		}
		if filter.JobID != 0 && r.JobID != filter.JobID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

// scriptedCompletion replays replies and errors in order, repeating the last.
type scriptedCompletion struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (s *scriptedCompletion) Complete(_ context.Context, prompt string) (string, error) {
	i := s.calls
	s.calls++
	s.prompts = append(s.prompts, prompt)

	var err error
	if len(s.errs) > 0 {
		err = s.errs[min(i, len(s.errs)-1)]
	}
	if err != nil {
		return "", err
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	return s.replies[min(i, len(s.replies)-1)], nil
}

func (s *scriptedCompletion) Model() string { return "fake-model" }

func seededRepos() (*fakeCVRepo, *fakeJobRepo, *fakeAnalysisRepo) {
	cvs := &fakeCVRepo{cvs: map[uint]*models.CV{
		1: {ID: 1, Name: "Backend CV", Content: "Go developer with 5 years of PostgreSQL"},
	}}
	jobs := &fakeJobRepo{jobs: map[uint]*models.Job{
		7: {ID: 7, Title: "Senior Go Engineer", Description: "Go, Kubernetes, PostgreSQL"},
	}}
	return cvs, jobs, &fakeAnalysisRepo{}
}
