// Package orchestrator implements the Ingestion Orchestrator (spec.md
// §5/§6): it drives one uploaded file through extraction, classification,
// model resolution, field mapping, conflict evaluation, catalog upsert,
// and chunking+embedding, across a bounded worker pool.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	catalogstore "github.com/labcold/catalog/internal/catalog"
	"github.com/labcold/catalog/internal/chunker"
	"github.com/labcold/catalog/internal/classifier"
	"github.com/labcold/catalog/internal/conflict"
	"github.com/labcold/catalog/internal/data/repos/catalogrepo"
	"github.com/labcold/catalog/internal/data/repos/ingestionrepo"
	catalogdomain "github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/domain/ingestion"
	"github.com/labcold/catalog/internal/extractor"
	"github.com/labcold/catalog/internal/fieldmapper"
	"github.com/labcold/catalog/internal/modelresolver"
	"github.com/labcold/catalog/internal/pkg/dbctx"
	"github.com/labcold/catalog/internal/platform/logger"
	"github.com/labcold/catalog/internal/registry"
	"github.com/labcold/catalog/internal/specvalue"
)

// defaultBrandCode/defaultFamilyCode are the fallbacks
// ingestion-orchestrator.py's _create_product applies when a model
// number resolves to no pattern and the document names no brand either.
const (
	defaultBrandCode  = "ABS"
	defaultFamilyCode = "premier_lab_ref"
)

// Orchestrator is the Ingestion Orchestrator component.
type Orchestrator struct {
	cfg Config
	log *logger.Logger

	documents ingestionrepo.DocumentRepo
	links     ingestionrepo.DocumentProductLinkRepo
	chunks    ingestionrepo.ChunkRepo
	jobs      ingestionrepo.IngestionJobRepo
	conflicts ingestionrepo.SpecConflictRepo

	brands   catalogrepo.BrandRepo
	families catalogrepo.FamilyRepo

	catalog  *catalogstore.Store
	conflict *conflict.Engine
	reg      *registry.Registry
	mapper   *fieldmapper.Mapper
	extract  *extractor.Extractor
	embedder *chunker.Embedder

	locks *modelLocks
}

func New(
	cfg Config,
	documents ingestionrepo.DocumentRepo,
	links ingestionrepo.DocumentProductLinkRepo,
	chunks ingestionrepo.ChunkRepo,
	jobs ingestionrepo.IngestionJobRepo,
	conflicts ingestionrepo.SpecConflictRepo,
	brands catalogrepo.BrandRepo,
	families catalogrepo.FamilyRepo,
	catalog *catalogstore.Store,
	conflictEngine *conflict.Engine,
	reg *registry.Registry,
	extract *extractor.Extractor,
	embedder *chunker.Embedder,
	baseLog *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		log:       baseLog.With("component", "ingestion_orchestrator"),
		documents: documents,
		links:     links,
		chunks:    chunks,
		jobs:      jobs,
		conflicts: conflicts,
		brands:    brands,
		families:  families,
		catalog:   catalog,
		conflict:  conflictEngine,
		reg:       reg,
		mapper:    fieldmapper.New(reg),
		extract:   extract,
		embedder:  embedder,
		locks:     newModelLocks(),
	}
}

// Run ingests a batch of files under one IngestionJob, fanning them out
// across a bounded worker pool (spec.md §5: "min(8, cores) worker
// pool"). It returns as soon as every file has been attempted or ctx is
// cancelled and the shutdown grace period elapses, whichever comes
// first. Files still in flight when the grace period elapses, and files
// never dispatched after cancellation, are counted in neither
// ProcessedFiles nor FailedFiles; Run logs a warning and returns.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*ingestion.IngestionJob, *Stats, error) {
	stats := newStats(len(req.Files))

	metaJSON, err := json.Marshal(req.Metadata)
	if err != nil {
		metaJSON = []byte("{}")
	}
	job := &ingestion.IngestionJob{
		Status:     ingestion.JobStatusProcessing,
		TotalFiles: len(req.Files),
		CallerID:   req.CallerID,
		Metadata:   datatypes.JSON(metaJSON),
	}
	if _, err := o.jobs.Create(dbctx.Context{Ctx: ctx}, job); err != nil {
		return nil, nil, fmt.Errorf("orchestrator: create job: %w", err)
	}

	concurrency := o.cfg.Concurrency
	if concurrency > len(req.Files) && len(req.Files) > 0 {
		concurrency = len(req.Files)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	fileCh := make(chan FileInput)
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for f := range fileCh {
				o.processOne(ctx, f, req, stats, workerID)
			}
		}(i)
	}

	go func() {
		defer close(fileCh)
		for _, f := range req.Files {
			select {
			case <-ctx.Done():
				return
			case fileCh <- f:
			}
		}
	}()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-ctx.Done():
		select {
		case <-done:
		case <-time.After(o.cfg.ShutdownTimeout):
			o.log.Warn("shutdown grace period elapsed with workers still running", "job_id", job.ID)
		}
	}

	finalStatus := ingestion.JobStatusCompleted
	if stats.FailedFiles > 0 && stats.ProcessedFiles == 0 {
		finalStatus = ingestion.JobStatusFailed
	}
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		finalStatus = ingestion.JobStatusFailed
	}
	job.Status = finalStatus
	job.ProcessedFiles = stats.ProcessedFiles
	job.FailedFiles = stats.FailedFiles
	job.NewProducts = stats.NewProducts
	job.UpdatedProducts = stats.UpdatedProducts
	job.NewConflicts = stats.ConflictsFound
	now := timeNow()
	job.CompletedAt = &now
	if saveErr := o.jobs.Save(dbctx.Context{Ctx: context.Background()}, job); saveErr != nil {
		o.log.Warn("failed to finalize ingestion job", "job_id", job.ID, "err", saveErr.Error())
	}

	return job, stats, nil
}

// timeNow is a thin indirection so the orchestrator has exactly one
// place that reads wall-clock time, matching the rest of the codebase's
// avoidance of scattered time.Now() calls in business logic.
func timeNow() time.Time { return time.Now() }

// callerRoleOrDefault falls back to a system role when a Request was built
// without an HTTP-resolved caller (e.g. a direct programmatic Run call),
// so the audit trail never records an empty role.
func callerRoleOrDefault(req Request) string {
	if req.CallerRole != "" {
		return req.CallerRole
	}
	return "ingestion_orchestrator"
}

func (o *Orchestrator) processOne(ctx context.Context, f FileInput, req Request, stats *Stats, workerID int) {
	fctx, cancel := context.WithTimeout(ctx, o.cfg.PerFileTimeout)
	defer cancel()

	delta, err := o.processFile(fctx, f, req)
	if err != nil {
		stats.addError(fmt.Sprintf("failed to ingest %s: %v", f.Filename, err))
		o.log.Warn("file ingestion failed", "worker_id", workerID, "filename", f.Filename, "err", err.Error())
		return
	}
	stats.recordFile(delta)
}

// processFile implements the full single-file pipeline, grounded on
// ingestion-orchestrator.py's _ingest_single_file/_process_model.
func (o *Orchestrator) processFile(ctx context.Context, f FileInput, req Request) (fileDelta, error) {
	var delta fileDelta

	sum := sha256.Sum256(f.Content)
	checksum := hex.EncodeToString(sum[:])

	existing, err := o.documents.GetByChecksum(dbctx.Context{Ctx: ctx}, checksum)
	if err != nil && !isNotFound(err) {
		return delta, fmt.Errorf("checksum lookup: %w", err)
	}
	if existing != nil {
		delta.skippedDuplicate++
		delta.warnings = append(delta.warnings, fmt.Sprintf("duplicate skipped: %s (matches %s)", f.Filename, existing.Filename))
		return delta, nil
	}

	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	extraction, err := o.extract.Extract(ctx, f.Content, mimeType)
	if err != nil {
		return delta, fmt.Errorf("extraction: %w", err)
	}

	cls := classifier.Classify(extraction.PlainText, f.Filename)

	var brandID *uuid.UUID
	if cls.BrandCode != "" {
		if b, err := o.brands.GetByCode(dbctx.Context{Ctx: ctx}, cls.BrandCode); err == nil {
			brandID = &b.ID
		}
	}

	text := extraction.PlainText
	capped := text
	if len(capped) > 50000 {
		capped = capped[:50000]
	}
	doc := &ingestion.Document{
		Filename:       f.Filename,
		DocType:        cls.DocType,
		MimeType:       mimeType,
		SourceURI:      "ingestion://" + f.Filename,
		ChecksumSHA256: checksum,
		PageCount:      len(extraction.Pages),
		ExtractedText:  capped,
		FileSizeBytes:  int64(len(f.Content)),
		BrandID:        brandID,
		Status:         ingestion.DocumentStatusProcessing,
		Revision:       cls.Revision,
		UploadedByCallerID: req.CallerID,
	}
	if _, err := o.documents.Create(dbctx.Context{Ctx: ctx}, doc); err != nil {
		return delta, fmt.Errorf("create document: %w", err)
	}

	candidates := modelresolver.ExtractCandidates(text)
	if len(candidates) == 0 {
		delta.warnings = append(delta.warnings, fmt.Sprintf("no model numbers found in %s", f.Filename))
		o.appendLog(ctx, doc.ID, "model_resolution", "no_models", "")
		delta.chunksCreated += o.chunkAndPersist(ctx, doc, text, nil, nil)
		o.markProcessed(ctx, doc.ID)
		return delta, nil
	}

	rawSpecs := o.extractRawSpecs(ctx, text, &delta)

	var productIDs []string
	for _, modelNum := range candidates {
		if err := ctx.Err(); err != nil {
			return delta, err
		}
		productID, created, updated, err := o.processModel(ctx, modelNum, cls, doc, rawSpecs, req, &delta)
		if err != nil {
			delta.warnings = append(delta.warnings, fmt.Sprintf("model %s: %v", modelNum, err))
			continue
		}
		if productID == nil {
			continue
		}
		if created {
			delta.newProducts++
		} else if updated {
			delta.updatedProducts++
		}
		productIDs = append(productIDs, productID.String())
	}

	specNames := make([]string, 0, len(rawSpecs))
	for _, s := range rawSpecs {
		if !isCompoundRaw(s.CanonicalName) {
			specNames = append(specNames, s.CanonicalName)
		}
	}
	delta.chunksCreated += o.chunkAndPersist(ctx, doc, text, productIDs, specNames)
	o.markProcessed(ctx, doc.ID)

	return delta, nil
}

// extractRawSpecs pulls KV pairs out of the document text, maps each
// label to a canonical name (auto-discovering unknown labels via the
// Spec Registry), and expands compound `_raw` fields into their
// component specs -- grounded on extraction-pipeline.py's
// extract_specs/_post_process_specs pipeline.
func (o *Orchestrator) extractRawSpecs(ctx context.Context, text string, delta *fileDelta) []extractedSpec {
	pairs := fieldmapper.ExtractKVPairs(text)
	var out []extractedSpec

	for _, kv := range pairs {
		canonical, autoDiscovered, err := o.mapper.Resolve(ctx, kv.Key, kv.Value)
		if err != nil || canonical == "" {
			continue
		}
		if autoDiscovered {
			delta.newSpecsDiscovered++
		}
		if isCompoundRaw(canonical) {
			out = append(out, expandCompoundField(canonical, kv.Value)...)
			continue
		}
		out = append(out, extractedSpec{
			CanonicalName: canonical,
			Raw:           kv.Value,
			Value:         parseLeafValue(kv.Value),
			Confidence:    0.9,
		})
	}
	return out
}

// processModel resolves one candidate model number to a product,
// creating or updating it, and links the source document to it.
func (o *Orchestrator) processModel(
	ctx context.Context,
	modelNum string,
	cls classifier.Result,
	doc *ingestion.Document,
	rawSpecs []extractedSpec,
	req Request,
	delta *fileDelta,
) (*uuid.UUID, bool, bool, error) {
	lock := o.locks.get(modelNum)
	lock.Lock()
	defer lock.Unlock()

	resolution, resolved := modelresolver.Resolve(modelNum)

	existing, err := o.catalog.GetByModelNumber(ctx, modelNum)
	if err != nil && !isNotFound(err) {
		return nil, false, false, fmt.Errorf("lookup product: %w", err)
	}

	if existing == nil {
		if !o.cfg.AutoCreateProducts {
			delta.warnings = append(delta.warnings, fmt.Sprintf("unknown model %s, auto-create disabled", modelNum))
			return nil, false, false, nil
		}
		product, err := o.createProduct(ctx, modelNum, resolution, resolved, cls, rawSpecs, req)
		if err != nil {
			return nil, false, false, err
		}
		if err := o.linkDocument(ctx, doc.ID, product.ID, rawSpecs); err != nil {
			o.log.Warn("link document failed", "product_id", product.ID, "err", err.Error())
		}
		return &product.ID, true, false, nil
	}

	product, changed, err := o.updateProduct(ctx, existing, cls, rawSpecs, req, delta, doc.ID)
	if err != nil {
		return nil, false, false, err
	}
	if err := o.linkDocument(ctx, doc.ID, product.ID, rawSpecs); err != nil {
		o.log.Warn("link document failed", "product_id", product.ID, "err", err.Error())
	}
	return &product.ID, false, changed, nil
}

func (o *Orchestrator) createProduct(
	ctx context.Context,
	modelNum string,
	resolution modelresolver.Resolution,
	resolved bool,
	cls classifier.Result,
	rawSpecs []extractedSpec,
	req Request,
) (*catalogdomain.Product, error) {
	brandCode := defaultBrandCode
	familyCode := defaultFamilyCode
	if resolved {
		brandCode = resolution.BrandCode
		familyCode = resolution.FamilyCode
	} else if cls.BrandCode != "" {
		brandCode = cls.BrandCode
	}

	brand, err := o.brands.GetByCode(dbctx.Context{Ctx: ctx}, brandCode)
	if err != nil {
		return nil, fmt.Errorf("resolve brand %q: %w", brandCode, err)
	}
	family, err := o.families.GetByCode(dbctx.Context{Ctx: ctx}, familyCode)
	if err != nil {
		return nil, fmt.Errorf("resolve family %q: %w", familyCode, err)
	}

	mutation := catalogstore.Mutation{
		ModelNumber:    modelNum,
		BrandID:        brand.ID,
		FamilyID:       family.ID,
		ProductLine:    resolution.ProductLine,
		ControllerTier: resolution.ControllerTier,
		Status:         catalogdomain.ProductStatusActive,
		Revision:       cls.Revision,
		ChangeSummary:  "created from ingested document",
		ChangedBy:      req.CallerID,
		SpecWrites:     map[string]specvalue.Value{},
	}

	fixed := catalogstore.FixedColumns{}
	if resolution.InferredCapacity != nil {
		fixed.StorageCapacityCuft = resolution.InferredCapacity
	}
	if resolution.InferredDoorType != "" {
		fixed.DoorType = resolution.InferredDoorType
	}

	var certs []string
	for _, s := range rawSpecs {
		if s.Confidence < o.cfg.MinConfidence {
			continue
		}
		if s.CanonicalName == "certifications" {
			certs = append(certs, s.Value.List...)
			continue
		}
		applyFixedOrSpec(&fixed, mutation.SpecWrites, s.CanonicalName, s.Value)
	}
	mutation.Fixed = fixed
	mutation.Certifications = dedupSorted(certs)

	product, _, _, err := o.catalog.Upsert(ctx, mutation, callerRoleOrDefault(req))
	if err != nil {
		return nil, fmt.Errorf("upsert: %w", err)
	}
	o.log.Info("created product", "model_number", modelNum, "family", familyCode)
	return product, nil
}

func (o *Orchestrator) updateProduct(
	ctx context.Context,
	existing *catalogdomain.Product,
	cls classifier.Result,
	rawSpecs []extractedSpec,
	req Request,
	delta *fileDelta,
	docID uuid.UUID,
) (*catalogdomain.Product, bool, error) {
	fixed, specWrites, certs, err := o.applySpecDecisions(ctx, existing, cls, rawSpecs, delta, docID)
	if err != nil {
		return nil, false, err
	}

	mutation := catalogstore.Mutation{
		ModelNumber:    existing.ModelNumber,
		Revision:       cls.Revision,
		ChangeSummary:  "updated from ingested document",
		ChangedBy:      req.CallerID,
		SpecWrites:     specWrites,
		Fixed:          fixed,
		Certifications: dedupSorted(certs),
	}

	product, created, versionBumped, err := o.catalog.Upsert(ctx, mutation, callerRoleOrDefault(req))
	if err != nil {
		return nil, false, fmt.Errorf("upsert: %w", err)
	}
	if created {
		return product, false, fmt.Errorf("expected update, got unexpected create for %s", existing.ModelNumber)
	}
	return product, versionBumped, nil
}

// applySpecDecisions evaluates every raw spec against existing via the
// Conflict Engine and returns the fixed-column/spec-write/certification
// deltas to apply. Conflict recording (spec.md §4.7's ActionConflict row)
// is a side effect against o.conflicts here; ActionOverwrite deliberately
// has none -- see the case comment below.
func (o *Orchestrator) applySpecDecisions(
	ctx context.Context,
	existing *catalogdomain.Product,
	cls classifier.Result,
	rawSpecs []extractedSpec,
	delta *fileDelta,
	docID uuid.UUID,
) (catalogstore.FixedColumns, map[string]specvalue.Value, []string, error) {
	specs, err := decodeProductSpecs(existing.Specs)
	if err != nil {
		return catalogstore.FixedColumns{}, nil, nil, err
	}

	fixed := catalogstore.FixedColumns{}
	specWrites := map[string]specvalue.Value{}
	var certs []string

	for _, s := range rawSpecs {
		if s.Confidence < o.cfg.MinConfidence {
			continue
		}
		if s.CanonicalName == "certifications" {
			certs = append(certs, s.Value.List...)
			continue
		}

		existingVal, hasExisting := existingSpecValue(existing, specs, s.CanonicalName)
		var existingPtr *specvalue.Value
		if hasExisting {
			existingPtr = &existingVal
		}

		decision, err := o.conflict.Evaluate(ctx, existing.FamilyID, s.CanonicalName, existingPtr, s.Value, cls.Revision, existing.Revision)
		if err != nil {
			return catalogstore.FixedColumns{}, nil, nil, fmt.Errorf("evaluate conflict for %s: %w", s.CanonicalName, err)
		}

		switch decision.Action {
		case conflict.ActionNoop:
			continue
		case conflict.ActionWrite:
			applyFixedOrSpec(&fixed, specWrites, s.CanonicalName, s.Value)
		case conflict.ActionOverwrite:
			// Strictly-newer revision: apply the write and move on. spec.md
			// §4.7's decision table calls for an audit entry here (already
			// emitted by catalog.Store.Upsert's product.updated row), not a
			// SpecConflict row -- a conflict row that is born already-terminal
			// (accept_new) would violate §8 invariant 6's pending->terminal
			// lifecycle.
			applyFixedOrSpec(&fixed, specWrites, s.CanonicalName, s.Value)
		case conflict.ActionConflict:
			o.recordConflict(ctx, existing.ID, docID, s, existingVal, decision.Severity, ingestion.ConflictResolutionPending)
			delta.conflictsFound++
			delta.warnings = append(delta.warnings, fmt.Sprintf("conflict flagged: %s on %s", s.CanonicalName, existing.ModelNumber))
		}
	}

	return fixed, specWrites, certs, nil
}

func (o *Orchestrator) recordConflict(ctx context.Context, productID, docID uuid.UUID, s extractedSpec, existingVal specvalue.Value, severity ingestion.ConflictSeverity, resolution ingestion.ConflictResolution) {
	existingRaw, _ := existingVal.Marshal()
	newRaw, _ := s.Value.Marshal()
	c := &ingestion.SpecConflict{
		ProductID:     productID,
		SpecName:      s.CanonicalName,
		ExistingValue: datatypes.JSON(existingRaw),
		NewValue:      datatypes.JSON(newRaw),
		SourceDocID:   docID,
		Severity:      severity,
		Resolution:    resolution,
	}
	if _, err := o.conflicts.Create(dbctx.Context{Ctx: ctx}, c); err != nil {
		o.log.Warn("failed to record spec conflict", "product_id", productID, "spec", s.CanonicalName, "err", err.Error())
	}
}

func (o *Orchestrator) linkDocument(ctx context.Context, docID, productID uuid.UUID, rawSpecs []extractedSpec) error {
	extractedMap := map[string]map[string]any{}
	for _, s := range rawSpecs {
		if isCompoundRaw(s.CanonicalName) {
			continue
		}
		extractedMap[s.CanonicalName] = map[string]any{
			"raw":        s.Raw,
			"confidence": s.Confidence,
		}
	}
	b, err := json.Marshal(extractedMap)
	if err != nil {
		return err
	}
	link := &ingestion.DocumentProductLink{
		DocumentID:     docID,
		ProductID:      productID,
		Relevance:      ingestion.RelevancePrimary,
		ExtractedSpecs: datatypes.JSON(b),
		Confidence:     1,
	}
	_, err = o.links.Upsert(dbctx.Context{Ctx: ctx}, link)
	return err
}

func (o *Orchestrator) chunkAndPersist(ctx context.Context, doc *ingestion.Document, text string, productIDs, specNames []string) int {
	pieces := chunker.Split(text, doc.DocType)
	if len(pieces) == 0 {
		return 0
	}

	texts := make([]string, len(pieces))
	for i, c := range pieces {
		texts[i] = c.Content
	}
	vectors := o.embedder.EmbedAll(ctx, texts)

	productIDsJSON, _ := json.Marshal(nonNil(productIDs))
	specNamesJSON, _ := json.Marshal(nonNil(specNames))

	records := make([]*ingestion.Chunk, 0, len(pieces))
	for i, c := range pieces {
		rec := &ingestion.Chunk{
			DocumentID:   doc.ID,
			ChunkIndex:   i,
			Content:      c.Content,
			ChunkType:    c.ChunkType,
			SectionTitle: c.SectionTitle,
			ProductIDs:   datatypes.JSON(productIDsJSON),
			SpecNames:    datatypes.JSON(specNamesJSON),
			TokenCount:   c.TokenCount,
		}
		if v := vectors[i]; v != nil {
			if raw, err := json.Marshal(v); err == nil {
				rec.Embedding = datatypes.JSON(raw)
				rec.EmbedDim = len(v)
			}
		}
		records = append(records, rec)
	}

	created, err := o.chunks.CreateBatch(dbctx.Context{Ctx: ctx}, records)
	if err != nil {
		o.log.Warn("failed to persist chunks", "document_id", doc.ID, "err", err.Error())
		return 0
	}

	o.embedder.PersistVectors(ctx, created, vectors)

	return len(records)
}

func (o *Orchestrator) markProcessed(ctx context.Context, docID uuid.UUID) {
	if err := o.documents.AppendProcessingLogEntry(dbctx.Context{Ctx: ctx}, docID, ingestion.ProcessingLogEntry{
		Stage:     "complete",
		Status:    "ok",
		Timestamp: timeNow(),
	}); err != nil {
		o.log.Warn("failed to append processing log", "document_id", docID, "err", err.Error())
		return
	}
	doc, err := o.documents.GetByID(dbctx.Context{Ctx: ctx}, docID)
	if err != nil {
		return
	}
	doc.Status = ingestion.DocumentStatusProcessed
	if err := o.documents.Save(dbctx.Context{Ctx: ctx}, doc); err != nil {
		o.log.Warn("failed to mark document processed", "document_id", docID, "err", err.Error())
	}
}

func (o *Orchestrator) appendLog(ctx context.Context, docID uuid.UUID, stage, status, message string) {
	_ = o.documents.AppendProcessingLogEntry(dbctx.Context{Ctx: ctx}, docID, ingestion.ProcessingLogEntry{
		Stage:     stage,
		Status:    status,
		Message:   message,
		Timestamp: timeNow(),
	})
}

// applyFixedOrSpec routes one canonical spec's value onto either
// FixedColumns or the SpecWrites map, matching PRODUCT_FIXED_COLUMNS.
func applyFixedOrSpec(fixed *catalogstore.FixedColumns, specs map[string]specvalue.Value, canonical string, v specvalue.Value) {
	if !fixedColumnNames[canonical] {
		specs[canonical] = v
		return
	}
	switch canonical {
	case "storage_capacity_cuft":
		val := v.Numeric
		fixed.StorageCapacityCuft = &val
	case "temp_range_min_c":
		val := v.Numeric
		fixed.TempRangeMinC = &val
	case "temp_range_max_c":
		val := v.Numeric
		fixed.TempRangeMaxC = &val
	case "door_count":
		val := int(v.Numeric)
		fixed.DoorCount = &val
	case "door_type":
		fixed.DoorType = valueText(v)
	case "shelf_count":
		val := int(v.Numeric)
		fixed.ShelfCount = &val
	case "refrigerant":
		fixed.Refrigerant = valueText(v)
	case "voltage_v":
		val := v.Numeric
		fixed.VoltageV = &val
	case "amperage":
		val := v.Numeric
		fixed.Amperage = &val
	case "product_weight_lbs":
		val := v.Numeric
		fixed.ProductWeightLbs = &val
	case "ext_width_in":
		val := v.Numeric
		fixed.ExtWidthIn = &val
	case "ext_depth_in":
		val := v.Numeric
		fixed.ExtDepthIn = &val
	case "ext_height_in":
		val := v.Numeric
		fixed.ExtHeightIn = &val
	}
}

func valueText(v specvalue.Value) string {
	switch v.Kind {
	case specvalue.KindEnum:
		return v.Enum
	default:
		return v.Text
	}
}

// existingSpecValue reads a product's current value for canonical,
// checking fixed columns before the Specs map, so the Conflict Engine
// always compares against whatever is actually authoritative.
func existingSpecValue(p *catalogdomain.Product, specs map[string]specvalue.Value, canonical string) (specvalue.Value, bool) {
	switch canonical {
	case "storage_capacity_cuft":
		return numOrZero(p.StorageCapacityCuft)
	case "temp_range_min_c":
		return numOrZero(p.TempRangeMinC)
	case "temp_range_max_c":
		return numOrZero(p.TempRangeMaxC)
	case "door_count":
		if p.DoorCount == nil {
			return specvalue.Value{}, false
		}
		return specvalue.Num(float64(*p.DoorCount), ""), true
	case "door_type":
		if p.DoorType == "" {
			return specvalue.Value{}, false
		}
		return specvalue.EnumVal(p.DoorType), true
	case "shelf_count":
		if p.ShelfCount == nil {
			return specvalue.Value{}, false
		}
		return specvalue.Num(float64(*p.ShelfCount), ""), true
	case "refrigerant":
		if p.Refrigerant == "" {
			return specvalue.Value{}, false
		}
		return specvalue.EnumVal(p.Refrigerant), true
	case "voltage_v":
		return numOrZero(p.VoltageV)
	case "amperage":
		return numOrZero(p.Amperage)
	case "product_weight_lbs":
		return numOrZero(p.ProductWeightLbs)
	case "ext_width_in":
		return numOrZero(p.ExtWidthIn)
	case "ext_depth_in":
		return numOrZero(p.ExtDepthIn)
	case "ext_height_in":
		return numOrZero(p.ExtHeightIn)
	}
	v, ok := specs[canonical]
	return v, ok
}

func numOrZero(p *float64) (specvalue.Value, bool) {
	if p == nil {
		return specvalue.Value{}, false
	}
	return specvalue.Num(*p, ""), true
}

func decodeProductSpecs(raw []byte) (map[string]specvalue.Value, error) {
	out := map[string]specvalue.Value{}
	if len(raw) == 0 {
		return out, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode specs: %w", err)
	}
	for k, r := range m {
		v, err := specvalue.Unmarshal(r)
		if err != nil {
			continue
		}
		out[k] = v
	}
	return out, nil
}

func dedupSorted(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, v := range vals {
		key := strings.ToUpper(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
