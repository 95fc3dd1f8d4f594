package compiler

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/archgen/codegen"
	"github.com/sarchlab/archgen/config"
)

const complexConfig = "../arch/testdata/complex.ini"

var _ = Describe("Compiler", func() {
	var (
		mockCtrl  *gomock.Controller
		buildTool *MockBuildTool
		recorder  *MockRecorder
		genRoot   string
		c         *Compiler
		ctx       context.Context
	)

	writeConfig := func(content string) string {
		path := filepath.Join(GinkgoT().TempDir(), "arch.ini")
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())

		return path
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		buildTool = NewMockBuildTool(mockCtrl)
		recorder = NewMockRecorder(mockCtrl)
		genRoot = GinkgoT().TempDir()
		ctx = context.Background()

		c = MakeBuilder().
			WithGenRoot(genRoot).
			WithProjectDir("/src/sim").
			WithBuildJobs(4).
			WithBuildTool(buildTool).
			WithRecorder(recorder).
			Build()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write every artifact and record it", func() {
		calls := []any{recorder.EXPECT().Start("skylake")}
		for _, name := range codegen.ArtifactNames() {
			calls = append(calls,
				recorder.EXPECT().RecordArtifact(name, gomock.Any()))
		}
		gomock.InOrder(calls...)

		desc, err := c.Compile(ctx, "skylake", complexConfig)

		Expect(err).NotTo(HaveOccurred())
		Expect(desc.Dir).To(Equal(filepath.Join(genRoot, "skylake")))
		Expect(desc.Model.SystemModel).To(BeEquivalentTo("complex"))

		for _, a := range desc.Artifacts {
			content, err := os.ReadFile(filepath.Join(desc.Dir, a.Name))
			Expect(err).NotTo(HaveOccurred())
			Expect(content).To(Equal(a.Content))
		}
	})

	It("should clear the previous output of the build", func() {
		recorder.EXPECT().Start(gomock.Any()).AnyTimes()
		recorder.EXPECT().RecordArtifact(gomock.Any(), gomock.Any()).AnyTimes()

		stale := filepath.Join(genRoot, "b1", "stale.h")
		Expect(os.MkdirAll(filepath.Dir(stale), 0o755)).To(Succeed())
		Expect(os.WriteFile(stale, []byte("old"), 0o644)).To(Succeed())

		_, err := c.Compile(ctx, "b1", complexConfig)

		Expect(err).NotTo(HaveOccurred())
		Expect(stale).NotTo(BeAnExistingFile())
	})

	It("should produce identical bytes on every run", func() {
		recorder.EXPECT().Start(gomock.Any()).AnyTimes()
		recorder.EXPECT().RecordArtifact(gomock.Any(), gomock.Any()).AnyTimes()

		first, err := c.Compile(ctx, "b1", complexConfig)
		Expect(err).NotTo(HaveOccurred())

		second, err := c.Compile(ctx, "b1", complexConfig)
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Artifacts).To(Equal(first.Artifacts))
	})

	It("should not touch the output when the DRAM type is unknown", func() {
		recorder.EXPECT().Start("b1")

		path := writeConfig(`
[SYSTEM]
model = simple

[LLC]
size_kb = 2048
ways = 16

[DRAM]
dram_type = 3200
`)
		kept := filepath.Join(genRoot, "b1", codegen.DRAMTimingFile)
		Expect(os.MkdirAll(filepath.Dir(kept), 0o755)).To(Succeed())
		Expect(os.WriteFile(kept, []byte("previous"), 0o644)).To(Succeed())

		_, err := c.Compile(ctx, "b1", path)

		var eerr *config.InvalidEnumError
		Expect(errors.As(err, &eerr)).To(BeTrue())
		Expect(eerr.Value).To(Equal("3200"))
		Expect(os.ReadFile(kept)).To(Equal([]byte("previous")))
	})

	It("should not create the build directory for an unknown model", func() {
		recorder.EXPECT().Start("b2")

		path := writeConfig(`
[SYSTEM]
model = manycore
`)

		_, err := c.Compile(ctx, "b2", path)

		var eerr *config.InvalidEnumError
		Expect(errors.As(err, &eerr)).To(BeTrue())
		Expect(eerr.Field).To(Equal("model"))
		Expect(filepath.Join(genRoot, "b2")).NotTo(BeADirectory())
	})

	It("should reject a build id that escapes the root", func() {
		_, err := c.Compile(ctx, "../b1", complexConfig)

		Expect(err).To(MatchError(ContainSubstring("path separator")))
	})

	It("should stop when the context is done", func() {
		recorder.EXPECT().Start("b1")

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := c.Compile(cancelled, "b1", complexConfig)

		Expect(err).To(MatchError(context.Canceled))
		Expect(filepath.Join(genRoot, "b1")).NotTo(BeADirectory())
	})

	Context("when building", func() {
		var desc *BuildDescriptor

		BeforeEach(func() {
			desc = &BuildDescriptor{
				BuildID: "b1",
				GenRoot: genRoot,
				Dir:     filepath.Join(genRoot, "b1"),
			}
		})

		It("should hand the build to the build tool", func() {
			buildTool.EXPECT().
				Build(gomock.Any(), BuildRequest{
					BuildID:    "b1",
					GenDir:     desc.Dir,
					ProjectDir: "/src/sim",
					Jobs:       4,
				}).
				Return(nil)

			Expect(c.Build(ctx, desc)).To(Succeed())
		})

		It("should fail when the build tool fails", func() {
			buildTool.EXPECT().
				Build(gomock.Any(), gomock.Any()).
				Return(&BuildToolError{Command: "make", Err: errors.New("exit status 2")})

			err := c.Build(ctx, desc)

			var berr *BuildToolError
			Expect(errors.As(err, &berr)).To(BeTrue())
			Expect(berr.Command).To(Equal("make"))
		})
	})
})

var _ = DescribeTable("ValidateBuildID",
	func(id string, valid bool) {
		err := ValidateBuildID(id)
		if valid {
			Expect(err).NotTo(HaveOccurred())
		} else {
			Expect(err).To(HaveOccurred())
		}
	},
	Entry("plain", "skylake", true),
	Entry("with dots", "v1.2", true),
	Entry("empty", "", false),
	Entry("current dir", ".", false),
	Entry("parent dir", "..", false),
	Entry("nested", "a/b", false),
	Entry("windows separator", `a\b`, false),
	Entry("padded", " a", false),
)
