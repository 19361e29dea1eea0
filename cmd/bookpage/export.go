package main

import (
	"github.com/spf13/cobra"

	"github.com/patagonia-pages/bookpage/internal/export"
)

func exportCmd(g *globalFlags) *cobra.Command {
	var (
		output   string
		basePath string
		upload   bool
		bucket   string
		prefix   string
		region   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the site to static files",
		Long: `Render the English and Spanish pages and copy the fingerprinted
assets into an output directory, ready for static hosting.

Static pages link to the external pre-order form instead of showing the
waitlist form. With --upload the output is copied to an S3 bucket using
the default AWS credential chain.

Examples:
  bookpage export
  bookpage export --output=public --base-path=/Patagonia-Pages/
  bookpage export --upload --bucket=my-site --region=us-east-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if output != "" {
				cfg.Export.Output = output
			}
			if basePath != "" {
				cfg.Export.BasePath = basePath
			}
			if bucket != "" {
				cfg.Export.Bucket = bucket
			}
			if prefix != "" {
				cfg.Export.Prefix = prefix
			}
			if region != "" {
				cfg.Export.Region = region
			}
			cfg.Normalize()

			logger, err := g.logger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			res, err := export.Run(cmd.Context(), export.Options{Config: cfg, Logger: logger})
			if err != nil {
				return err
			}
			success(out, "Exported %d pages and %d assets to %s", len(res.Pages), res.Manifest.Len(), res.Output)

			if !upload {
				return nil
			}
			if cfg.Export.Bucket == "" {
				return errBucketRequired
			}
			client, err := export.NewS3Client(cmd.Context(), cfg.Export)
			if err != nil {
				return err
			}
			n, err := export.NewUploader(client, cfg.Export.Bucket, cfg.Export.Prefix, logger).Upload(cmd.Context(), res)
			if err != nil {
				return err
			}
			success(out, "Uploaded %d objects to s3://%s/%s", n, cfg.Export.Bucket, cfg.Export.Prefix)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "Base path of the hosted site")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload the output to S3")
	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix in the bucket")
	cmd.Flags().StringVar(&region, "region", "", "AWS region")

	return cmd
}
