package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	watermark "github.com/yyyoichi/watermark_rdh"
	"github.com/yyyoichi/watermark_rdh/internal/images"
)

var extractFlags struct {
	Image    string
	Key      string
	MarkOut  string
	Restored string
	Original string
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the watermark and restore the cover",
	Long: `Reads the watermark bits from an image written by embed and reverses the histogram shift.
With --original the restored cover is compared pixel for pixel against the gray original.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(extractFlags.Key)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		var key watermark.Key
		if err := key.UnmarshalBinary(data); err != nil {
			return err
		}
		src, err := images.Open(extractFlags.Image)
		if err != nil {
			return err
		}

		extracted, err := watermark.Extract(cmd.Context(), src, &key,
			watermark.WithMarkSize(key.MarkWidth, key.MarkHeight),
			watermark.WithLogger(log.Logger),
		)
		if err != nil {
			return err
		}
		if err := images.Save(extractFlags.MarkOut, extracted.Mark.Image()); err != nil {
			return err
		}
		if err := images.Save(extractFlags.Restored, extracted.Restored); err != nil {
			return err
		}
		fmt.Printf("%s extracted %dx%d mark (%d on bits) to %s\n",
			okColor("[OK]"), extracted.Mark.Width(), extracted.Mark.Height(), extracted.Mark.OnBits(), extractFlags.MarkOut)

		if extractFlags.Original == "" {
			return nil
		}
		loader := images.NewLoader(images.WithSize(key.Width, key.Height))
		original, err := loader.Load(extractFlags.Original)
		if err != nil {
			return err
		}
		psnr, err := watermark.PSNR(original, extracted.Restored)
		if err != nil {
			return err
		}
		if psnr != 100 {
			fmt.Printf("%s restored image differs from the original: PSNR %.2f dB\n", failColor("[FAIL]"), psnr)
			return fmt.Errorf("restoration is not lossless")
		}
		fmt.Printf("%s restored image equals the original\n", okColor("[OK]"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	f := extractCmd.Flags()
	f.StringVarP(&extractFlags.Image, "image", "i", "", "Watermarked PNG written by embed (required)")
	extractCmd.MarkFlagRequired("image")
	f.StringVarP(&extractFlags.Key, "key", "k", "", "Key written by embed (required)")
	extractCmd.MarkFlagRequired("key")
	f.StringVarP(&extractFlags.MarkOut, "mark-out", "m", "mark.png", "Output path of the extracted watermark")
	f.StringVarP(&extractFlags.Restored, "restored", "r", "restored.png", "Output path of the restored cover")
	f.StringVar(&extractFlags.Original, "original", "", "Original cover path or URL to verify the restoration against")
}
