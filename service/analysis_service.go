package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"finsight-backend/analysis"
	"finsight-backend/inference"
	"finsight-backend/models"
	"finsight-backend/repository"
	"finsight-backend/storage"

	"github.com/google/uuid"
)

// AnalysisService orchestrates the document analysis pipeline: text
// extraction, entity recognition, clause extraction and sentiment scoring,
// all delegated to the inference backends and persisted as one bundle.
type AnalysisService struct {
	docRepo      *repository.DocumentRepository
	jobRepo      *repository.AnalysisJobRepository
	analysisRepo *repository.AnalysisRepository
	store        storage.Store
	inference    *inference.Client
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithDocumentRepository sets the document repository
func WithDocumentRepository(repo *repository.DocumentRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.docRepo = repo
	}
}

// WithAnalysisJobRepository sets the analysis job repository
func WithAnalysisJobRepository(repo *repository.AnalysisJobRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.jobRepo = repo
	}
}

// WithAnalysisRepository sets the analysis repository
func WithAnalysisRepository(repo *repository.AnalysisRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.analysisRepo = repo
	}
}

// WithStore sets the document store
func WithStore(store storage.Store) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.store = store
	}
}

// WithInferenceClient sets the inference backend client
func WithInferenceClient(client *inference.Client) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.inference = client
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrJobNotFound      = errors.New("analysis job not found")
	ErrJobCreation      = errors.New("failed to create analysis job")
	ErrEmptyDocument    = errors.New("document produced no text")
)

// Pipeline step names shown in job status responses.
const (
	stepExtractText      = "Extracting Text"
	stepExtractEntities  = "Extracting Entities"
	stepExtractClauses   = "Extracting Clauses"
	stepAnalyzeSentiment = "Analyzing Sentiment"
	stepStoreResults     = "Storing Results"
)

// StartAnalysisRequest represents a request to analyze a document
type StartAnalysisRequest struct {
	DocumentID uuid.UUID
}

// StartAnalysisResult represents the result of creating an analysis job
type StartAnalysisResult struct {
	JobID uuid.UUID
}

// StartAnalysis creates an analysis job and returns immediately. The actual
// pipeline runs in ProcessAnalysis on a background goroutine.
func (s *AnalysisService) StartAnalysis(ctx context.Context, req StartAnalysisRequest) (*StartAnalysisResult, error) {
	if s.docRepo == nil {
		return nil, errors.New("document repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	if _, err := s.docRepo.GetByID(ctx, req.DocumentID); err != nil {
		return nil, ErrDocumentNotFound
	}

	job := &models.AnalysisJob{
		ID:         uuid.New(),
		DocumentID: req.DocumentID,
		Status:     models.JobStatusPending,
		Steps:      initialSteps(),
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, ErrJobCreation
	}

	return &StartAnalysisResult{JobID: job.ID}, nil
}

func initialSteps() models.AnalysisSteps {
	names := []string{
		stepExtractText,
		stepExtractEntities,
		stepExtractClauses,
		stepAnalyzeSentiment,
		stepStoreResults,
	}
	steps := make(models.AnalysisSteps, 0, len(names))
	for _, name := range names {
		steps = append(steps, models.AnalysisStep{Name: name, Status: "pending"})
	}
	return steps
}

// ProcessAnalysis runs the pipeline for a job. Text extraction failure is
// fatal; any single analysis backend failing only leaves its payload empty,
// so a broken sentiment model never loses the rest of the analysis.
func (s *AnalysisService) ProcessAnalysis(ctx context.Context, jobID uuid.UUID) error {
	if s.jobRepo == nil || s.docRepo == nil || s.analysisRepo == nil {
		return errors.New("analysis service not fully configured")
	}
	if s.store == nil || s.inference == nil {
		return errors.New("analysis service not fully configured")
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load analysis job: %w", err)
	}

	doc, err := s.docRepo.GetByID(ctx, job.DocumentID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load document: "+err.Error())
		return err
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	// 1. Text extraction. Without text nothing downstream can run.
	s.setStep(ctx, jobID, stepExtractText, "in_progress")
	text, err := s.extractDocumentText(ctx, doc)
	if err != nil {
		s.setStep(ctx, jobID, stepExtractText, "failed")
		s.markJobFailed(ctx, jobID, "text extraction failed: "+err.Error())
		return fmt.Errorf("text extraction failed: %w", err)
	}
	s.setStep(ctx, jobID, stepExtractText, "completed")

	result := &models.Analysis{
		DocumentID:   doc.ID,
		DocumentText: text,
		NER:          models.RawPayload{},
		Sentiment:    models.RawPayload{},
		Clauses:      models.RawPayload{},
	}

	// 2. Entity recognition.
	s.setStep(ctx, jobID, stepExtractEntities, "in_progress")
	if payload, err := s.inference.ExtractEntities(ctx, text); err != nil {
		log.Printf("Warning: entity extraction failed for document %s: %v", doc.ID, err)
		s.setStep(ctx, jobID, stepExtractEntities, "failed")
	} else {
		result.NER = payload
		s.setStep(ctx, jobID, stepExtractEntities, "completed")
	}

	// 3. Clause extraction.
	s.setStep(ctx, jobID, stepExtractClauses, "in_progress")
	if payload, err := s.inference.ExtractClauses(ctx, text); err != nil {
		log.Printf("Warning: clause extraction failed for document %s: %v", doc.ID, err)
		s.setStep(ctx, jobID, stepExtractClauses, "failed")
	} else {
		result.Clauses = payload
		s.setStep(ctx, jobID, stepExtractClauses, "completed")
	}

	// 4. Sentiment.
	s.setStep(ctx, jobID, stepAnalyzeSentiment, "in_progress")
	if payload, err := s.inference.AnalyzeSentiment(ctx, text); err != nil {
		log.Printf("Warning: sentiment analysis failed for document %s: %v", doc.ID, err)
		s.setStep(ctx, jobID, stepAnalyzeSentiment, "failed")
	} else {
		result.Sentiment = payload
		s.setStep(ctx, jobID, stepAnalyzeSentiment, "completed")
	}

	// 5. Persist the bundle and link it to the job.
	s.setStep(ctx, jobID, stepStoreResults, "in_progress")
	if err := s.analysisRepo.Create(ctx, result); err != nil {
		s.setStep(ctx, jobID, stepStoreResults, "failed")
		s.markJobFailed(ctx, jobID, "failed to store analysis: "+err.Error())
		return fmt.Errorf("failed to store analysis: %w", err)
	}
	s.setStep(ctx, jobID, stepStoreResults, "completed")

	if err := s.jobRepo.Complete(ctx, jobID, result.ID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// extractDocumentText streams the stored document through the extraction
// backend.
func (s *AnalysisService) extractDocumentText(ctx context.Context, doc *models.Document) (string, error) {
	content, err := s.store.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", err
	}
	defer content.Close()

	extraction, err := s.inference.ExtractText(ctx, doc.Filename, content)
	if err != nil {
		return "", err
	}
	if extraction.Text == "" {
		return "", ErrEmptyDocument
	}
	return extraction.Text, nil
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.AnalysisJob
}

// GetJobStatus retrieves the status of an analysis job
func (s *AnalysisService) GetJobStatus(ctx context.Context, req GetJobStatusRequest) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("analysis job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{Job: job}, nil
}

// GetAnalysisRequest represents a request to get a stored analysis
type GetAnalysisRequest struct {
	AnalysisID uuid.UUID
}

// GetAnalysisResult carries the stored bundle and its derived view model
type GetAnalysisResult struct {
	Analysis  *models.Analysis
	ViewModel analysis.ViewModel
}

// GetAnalysis retrieves an analysis and derives its view model
func (s *AnalysisService) GetAnalysis(ctx context.Context, req GetAnalysisRequest) (*GetAnalysisResult, error) {
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	stored, err := s.analysisRepo.GetByID(ctx, req.AnalysisID)
	if err != nil {
		return nil, ErrAnalysisNotFound
	}

	return &GetAnalysisResult{
		Analysis:  stored,
		ViewModel: analysis.BuildViewModelFromAnalysis(stored),
	}, nil
}

// GetAnalysisByDocumentRequest represents a lookup by document
type GetAnalysisByDocumentRequest struct {
	DocumentID uuid.UUID
}

// GetAnalysisByDocument retrieves the latest analysis for a document
func (s *AnalysisService) GetAnalysisByDocument(ctx context.Context, req GetAnalysisByDocumentRequest) (*GetAnalysisResult, error) {
	if s.analysisRepo == nil {
		return nil, errors.New("analysis repository not set")
	}

	stored, err := s.analysisRepo.GetByDocumentID(ctx, req.DocumentID)
	if err != nil {
		return nil, ErrAnalysisNotFound
	}

	return &GetAnalysisResult{
		Analysis:  stored,
		ViewModel: analysis.BuildViewModelFromAnalysis(stored),
	}, nil
}

// setStep updates one pipeline step's status on the job record.
func (s *AnalysisService) setStep(ctx context.Context, jobID uuid.UUID, stepName, status string) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		log.Printf("Warning: failed to load job %s for step update: %v", jobID, err)
		return
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	for i := range steps {
		if steps[i].Name == stepName {
			steps[i].Status = status
			if status == "in_progress" {
				currentStep = stepName
			}
			break
		}
	}

	if err := s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps); err != nil {
		log.Printf("Warning: failed to update progress for job %s: %v", jobID, err)
	}
}

// markJobFailed marks a job as failed with an error message
func (s *AnalysisService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	if err := s.jobRepo.Fail(ctx, jobID, errorMessage); err != nil {
		log.Printf("Warning: failed to mark job %s failed: %v", jobID, err)
	}
}

// SaveDocumentRequest represents an upload to persist
type SaveDocumentRequest struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// SaveDocumentResult carries the stored document record
type SaveDocumentResult struct {
	Document *models.Document
}

// SaveDocument stores an uploaded document and records it
func (s *AnalysisService) SaveDocument(ctx context.Context, req SaveDocumentRequest) (*SaveDocumentResult, error) {
	if s.docRepo == nil {
		return nil, errors.New("document repository not set")
	}
	if s.store == nil {
		return nil, errors.New("document store not set")
	}

	docID := uuid.New()
	key, err := s.store.Save(ctx, docID, req.Filename, req.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &models.Document{
		Filename:    req.Filename,
		MimeType:    storage.ContentTypeFor(req.Filename),
		Size:        req.Size,
		StoragePath: key,
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		if removeErr := s.store.Remove(ctx, key); removeErr != nil {
			log.Printf("Warning: failed to remove orphaned document %s: %v", key, removeErr)
		}
		return nil, err
	}

	return &SaveDocumentResult{Document: doc}, nil
}
