package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/quantfold/regime/pkg/artifact"
	"github.com/quantfold/regime/pkg/cluster"
	"github.com/quantfold/regime/pkg/data"
	"github.com/quantfold/regime/pkg/feature"
	"github.com/quantfold/regime/pkg/model"
	"github.com/quantfold/regime/pkg/pattern"
	"github.com/quantfold/regime/pkg/queue/nats"
	"github.com/quantfold/regime/pkg/store/duckdb"
	"github.com/quantfold/regime/pkg/store/milvus"
)

// Config holds training job configuration.
type Config struct {
	CSVPath     string
	StockColumn string

	Clusters   int
	BatchSize  int
	NInit      int
	MaxIter    int
	Seed       int64
	SampleSize int
	Workers    int

	OutputDir  string
	DuckDBPath string // optional staging database
	MilvusAddr string // optional centroid publication
	NATSUrl    string // optional model-updated event
}

func main() {
	cfg := parseFlags()
	ctx := context.Background()

	log.Printf("Starting pattern training (k=%d, seed=%d)", cfg.Clusters, cfg.Seed)

	// Load and validate the dataset.
	log.Printf("Loading data from %s...", cfg.CSVPath)
	provider := data.NewCSVProvider(cfg.CSVPath, cfg.StockColumn)
	bars, err := provider.LoadBars(ctx)
	if err != nil {
		log.Fatalf("Failed to load bars: %v", err)
	}
	log.Printf("Loaded %d rows", len(bars))

	// Extract features, optionally staging through DuckDB.
	var vectors []model.FeatureVector
	if cfg.DuckDBPath != "" {
		vectors, err = stagedFeatures(ctx, cfg, bars)
		if err != nil {
			log.Fatalf("Failed to extract features via DuckDB: %v", err)
		}
	} else {
		pipeline := feature.NewPipeline(cfg.Workers)
		pipeline.OnProgress = func(done, total int) {
			if done%50 == 0 || done == total {
				log.Printf("  Progress: %d/%d instruments (%.1f%%)", done, total, float64(done)/float64(total)*100)
			}
		}
		vectors = pipeline.Run(bars)
	}
	log.Printf("Total feature rows: %d", len(vectors))

	// Train.
	result, err := fitModel(vectors, cluster.Config{
		K:          cfg.Clusters,
		BatchSize:  cfg.BatchSize,
		NInit:      cfg.NInit,
		MaxIter:    cfg.MaxIter,
		Seed:       cfg.Seed,
		SampleSize: cfg.SampleSize,
	})
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	if math.IsNaN(result.Silhouette) {
		log.Printf("Silhouette score: unavailable (%v)", result.SilhouetteErr)
	} else {
		log.Printf("Silhouette score (sampled): %.3f", result.Silhouette)
	}
	log.Println("Cluster distribution:")
	for _, c := range result.Distribution {
		log.Printf("  Cluster %d: %d samples (%.1f%%)", c.Cluster, c.Count, c.Fraction*100)
	}

	log.Println("Cluster -> pattern mapping:")
	clusterIDs := make([]int, 0, len(result.Assignment))
	for id := range result.Assignment {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Ints(clusterIDs)
	for _, id := range clusterIDs {
		patternID := result.Assignment[id]
		tmpl, _ := pattern.Lookup(patternID)
		log.Printf("  Cluster %d -> %s: %s", id, patternID, tmpl.Name)
	}

	// Persist artifacts.
	writer := artifact.NewWriter(cfg.OutputDir)
	err = writer.Write(result.Model.Centroids, result.ScalerParams, result.Schema, result.Assignment, result.Stats)
	if err != nil {
		log.Fatalf("Failed to write artifacts: %v", err)
	}
	log.Printf("Artifacts saved to %s/", cfg.OutputDir)

	// Optional sinks.
	if cfg.MilvusAddr != "" {
		if err := publishCentroids(ctx, cfg, result); err != nil {
			log.Fatalf("Failed to publish centroids to Milvus: %v", err)
		}
		log.Println("Centroids published to Milvus")
	}
	if cfg.NATSUrl != "" {
		if err := announceModel(ctx, cfg, result); err != nil {
			log.Fatalf("Failed to announce model update: %v", err)
		}
		log.Println("Model update announced on NATS")
	}

	log.Println("Pattern training complete")
}

// trainResult bundles everything downstream of clustering.
type trainResult struct {
	Schema        []string
	ScalerParams  cluster.ScalerParams
	Model         *cluster.Model
	Labels        []int
	Rows          []model.FeatureVector
	Distribution  []cluster.ClusterCount
	Silhouette    float64
	SilhouetteErr error
	Assignment    pattern.Assignment
	Stats         map[string]pattern.Stats
}

// fitModel runs the core pipeline from computed feature rows to a
// labeled, pattern-mapped model: drop undefined rows, standardize,
// cluster, score cohesion on a bounded sample, map clusters to
// patterns, and compute population stats.
func fitModel(vectors []model.FeatureVector, cfg cluster.Config) (*trainResult, error) {
	schema := model.FeatureNames()

	X, rows := feature.Matrix(vectors)
	if len(X) == 0 {
		return nil, fmt.Errorf("no defined feature rows after cleaning (%d raw rows)", len(vectors))
	}

	scaler := cluster.NewScaler()
	if err := scaler.Fit(X, schema); err != nil {
		return nil, err
	}
	// The raw matrix is not needed past this point; standardize it in
	// place rather than doubling peak memory on large datasets.
	if err := scaler.TransformInPlace(X); err != nil {
		return nil, err
	}

	trainer := cluster.NewTrainer(cfg)
	clusterModel, labels, err := trainer.Fit(X)
	if err != nil {
		return nil, err
	}

	result := &trainResult{
		Schema:       schema,
		ScalerParams: scaler.Params(),
		Model:        clusterModel,
		Labels:       labels,
		Rows:         rows,
		// The trainer fills unset config fields with defaults, so the
		// effective cluster count is the centroid count, not cfg.K.
		Distribution: cluster.Distribution(labels, len(clusterModel.Centroids)),
	}

	// Diagnostic only; a degenerate sample must not fail the run.
	result.Silhouette, result.SilhouetteErr = cluster.SampledSilhouette(X, labels, cfg.SampleSize, cfg.Seed)
	if result.SilhouetteErr != nil {
		result.Silhouette = math.NaN()
	}

	result.Assignment, err = pattern.MapClusters(clusterModel.Centroids, schema)
	if err != nil {
		return nil, err
	}
	result.Stats = pattern.CalculateStats(labels, result.Assignment)
	return result, nil
}

// stagedFeatures stages the dataset in DuckDB and extracts features one
// instrument at a time, persisting the computed rows. Only one
// instrument's bars are resident at a time.
func stagedFeatures(ctx context.Context, cfg Config, bars []model.Bar) ([]model.FeatureVector, error) {
	client, err := duckdb.NewClient(cfg.DuckDBPath)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := duckdb.InitializeSchema(client); err != nil {
		return nil, err
	}

	barRepo := duckdb.NewBarRepo(client)
	featureRepo := duckdb.NewFeatureRepo(client)

	log.Printf("Staging %d bars in DuckDB at %s...", len(bars), cfg.DuckDBPath)
	if err := barRepo.InsertBatch(ctx, bars); err != nil {
		return nil, err
	}
	bars = nil

	stocks, err := barRepo.Instruments(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("Processing %d instruments...", len(stocks))

	var vectors []model.FeatureVector
	for i, stock := range stocks {
		stockBars, err := barRepo.GetByStock(ctx, stock)
		if err != nil {
			return nil, err
		}
		extracted := feature.Extract(stockBars)
		if err := featureRepo.InsertBatch(ctx, extracted); err != nil {
			return nil, err
		}
		vectors = append(vectors, extracted...)

		if (i+1)%50 == 0 || i+1 == len(stocks) {
			log.Printf("  Progress: %d/%d instruments (%.1f%%)", i+1, len(stocks), float64(i+1)/float64(len(stocks))*100)
		}
	}
	return vectors, nil
}

// publishCentroids writes the learned centroids with their pattern
// metadata to the Milvus centroid collection.
func publishCentroids(ctx context.Context, cfg Config, result *trainResult) error {
	client, err := milvus.NewClient(ctx, milvus.Config{Address: cfg.MilvusAddr})
	if err != nil {
		return err
	}
	defer client.Close()

	collection := milvus.CollectionConfig{
		Name:      milvus.DefaultCollectionName,
		Dimension: len(result.Schema),
		Shards:    1,
	}
	if err := client.CreateCollection(ctx, collection); err != nil {
		return err
	}

	trainedAt := time.Now()
	records := make([]milvus.CentroidRecord, len(result.Model.Centroids))
	for clusterID, centroid := range result.Model.Centroids {
		vec := make([]float32, len(centroid))
		for j, v := range centroid {
			vec[j] = float32(v)
		}
		record := milvus.CentroidRecord{
			ClusterID: int64(clusterID),
			Centroid:  vec,
			TrainedAt: trainedAt,
		}
		if patternID, ok := result.Assignment[clusterID]; ok {
			record.PatternID = patternID
			if tmpl, ok := pattern.Lookup(patternID); ok {
				record.PatternName = tmpl.Name
			}
			if s, ok := result.Stats[patternID]; ok {
				record.SampleCount = int64(s.SampleCount)
				record.Percentage = s.Percentage
			}
		}
		records[clusterID] = record
	}

	if err := client.InsertCentroids(ctx, collection.Name, records); err != nil {
		return err
	}
	if err := client.Flush(ctx, collection.Name); err != nil {
		return err
	}
	if err := client.CreateIndex(ctx, collection.Name, "centroid"); err != nil {
		return err
	}
	return client.LoadCollection(ctx, collection.Name)
}

// announceModel publishes a model-updated event on JetStream.
func announceModel(ctx context.Context, cfg Config, result *trainResult) error {
	natsCfg := nats.DefaultConfig()
	natsCfg.URL = cfg.NATSUrl

	client, err := nats.NewClient(natsCfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.CreateStream(ctx, []string{nats.SubjectModelUpdated}); err != nil {
		return err
	}

	msg := nats.ModelUpdatedMsg{
		TrainedAt:    time.Now(),
		Clusters:     len(result.Model.Centroids),
		LabeledRows:  len(result.Labels),
		FeatureNames: result.Schema,
		ArtifactDir:  cfg.OutputDir,
		Patterns:     result.Assignment,
		Silhouette:   result.Silhouette,
	}
	payload, err := nats.Encode(msg)
	if err != nil {
		return err
	}
	return client.Publish(ctx, nats.SubjectModelUpdated, payload)
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.CSVPath, "csv", "", "Path to CSV file with OHLCV data")
	flag.StringVar(&cfg.StockColumn, "stock-col", data.DefaultStockColumn, "Instrument-identifying column name")
	flag.IntVar(&cfg.Clusters, "k", 9, "Number of clusters")
	flag.IntVar(&cfg.BatchSize, "batch", 10000, "Mini-batch size")
	flag.IntVar(&cfg.NInit, "ninit", 3, "Independent cluster initializations")
	flag.IntVar(&cfg.MaxIter, "maxiter", 100, "Max mini-batch iterations")
	flag.Int64Var(&cfg.Seed, "seed", 42, "Random seed")
	flag.IntVar(&cfg.SampleSize, "sample", 100000, "Silhouette sample size cap")
	flag.IntVar(&cfg.Workers, "workers", runtime.NumCPU(), "Feature extraction workers")
	flag.StringVar(&cfg.OutputDir, "out", "artifacts", "Artifact output directory")
	flag.StringVar(&cfg.DuckDBPath, "duckdb", "", "Optional DuckDB staging file")
	flag.StringVar(&cfg.MilvusAddr, "milvus", "", "Optional Milvus address for centroid publication")
	flag.StringVar(&cfg.NATSUrl, "nats", "", "Optional NATS URL for model-updated events")

	flag.Parse()

	if cfg.CSVPath == "" {
		fmt.Println("Usage: train -csv <path> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if cfg.Clusters < 1 {
		log.Fatalf("Invalid cluster count %d: -k must be at least 1", cfg.Clusters)
	}

	return cfg
}
