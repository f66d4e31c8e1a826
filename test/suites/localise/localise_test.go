package test_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/siondream/localise"
	"github.com/siondream/localise/internal/config"
	"github.com/siondream/localise/test"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type eventLog struct {
	events []localise.Event
}

func (l *eventLog) Report(evt localise.Event) {
	l.events = append(l.events, evt)
}

func (l *eventLog) lines() []string {
	out := make([]string, 0, len(l.events))
	for _, evt := range l.events {
		out = append(out, strings.TrimSpace(evt.String()))
	}
	return out
}

var _ = Describe("Localisation sync", func() {
	var (
		dir     string
		fs      afero.Fs
		cfgPath string
		log     *eventLog
	)

	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	}
	read := func(rel string) string {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		Expect(err).NotTo(HaveOccurred())
		return string(data)
	}
	run := func() error {
		cfg, err := config.Load(fs, cfgPath)
		if err != nil {
			return err
		}
		return localise.Sync(fs, cfg, log)
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "localise-suite-*")
		Expect(err).NotTo(HaveOccurred())
		fs = afero.NewOsFs()
		log = &eventLog{}
		cfgPath = filepath.Join(dir, "localisation.cfg")
		write("localisation.cfg", fmt.Sprintf(`[localisation]
patterns = key="(?P<key>\w+)"
patterns = getString\("(?P<key>[\w.]+)"\)
langs = en
langs = es
sourceDir = %s
targetDir = %s
`, filepath.Join(dir, "src"), filepath.Join(dir, "data", "lang")))
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	It("should replace a stale key with the newly found one", func() {
		write("src/ui/menu.xml", `<label key="greeting"/>`+"\n")
		write("data/lang/en.csv", "Key,Value,Context\r\nfarewell,Goodbye,\r\n")

		Expect(run()).To(Succeed())
		Expect(read("data/lang/en.csv")).To(Equal("Key,Value,Context\r\ngreeting,greeting,\r\n"))
	})

	It("should leave only the header when the source tree is empty", func() {
		Expect(os.MkdirAll(filepath.Join(dir, "src"), 0o755)).To(Succeed())
		write("data/lang/en.csv", "Key,Value,Context\r\na,A,\r\nb,B,\r\n")

		Expect(run()).To(Succeed())
		Expect(read("data/lang/en.csv")).To(Equal("Key,Value,Context\r\n"))
	})

	It("should create missing locale files with placeholders", func() {
		write("src/Game.java", "setText(getString(\"menu.play\"));\n")

		Expect(run()).To(Succeed())
		Expect(read("data/lang/en.csv")).To(Equal("Key,Value,Context\r\nmenu.play,menu.play,\r\n"))
		Expect(read("data/lang/es.csv")).To(Equal("Key,Value,Context\r\nmenu.play,menu.play,\r\n"))
		Expect(log.lines()).To(ContainElement(HavePrefix("* Localisation file not found, creating")))
	})

	It("should keep translations and be idempotent", func() {
		write("src/Game.java", "getString(\"menu.play\")\ngetString(\"menu.quit\")\n")
		write("data/lang/es.csv", "Key,Value,Context\r\nmenu.play,Jugar,\r\n")

		Expect(run()).To(Succeed())
		first := read("data/lang/es.csv")
		Expect(first).To(Equal("Key,Value,Context\r\nmenu.play,Jugar,\r\nmenu.quit,menu.quit,\r\n"))

		Expect(run()).To(Succeed())
		Expect(read("data/lang/es.csv")).To(Equal(first))
	})

	It("should narrate the run in order", func() {
		write("src/Game.java", "getString(\"menu.play\")\n")
		write("data/lang/en.csv", "Key,Value,Context\r\nold,Old,\r\n")

		Expect(run()).To(Succeed())
		Expect(log.lines()).To(Equal([]string{
			"* Looking for strings in " + filepath.Join(dir, "src"),
			"* Processing " + filepath.Join(dir, "src", "Game.java"),
			"* Found key menu.play",
			"* Processing locale en",
			"* Localisation file found: " + filepath.Join(dir, "data", "lang", "en.csv"),
			"* Deleting key old",
			"* Adding new key menu.play",
			"* Wrote " + filepath.Join(dir, "data", "lang", "en.csv"),
			"* Processing locale es",
			"* Localisation file not found, creating " + filepath.Join(dir, "data", "lang", "es.csv"),
			"* Adding new key menu.play",
			"* Wrote " + filepath.Join(dir, "data", "lang", "es.csv"),
		}))
	})

	It("should fail before writing when the config has no patterns", func() {
		write("localisation.cfg", "[localisation]\nlangs = en\nsourceDir = src\ntargetDir = lang\n")

		err := run()
		Expect(err).To(HaveOccurred())
		Expect(localise.IsKind(err, localise.KindConfig)).To(BeTrue())
	})

	It("should fail the run on a locale row with a single column", func() {
		write("src/Game.java", "getString(\"menu.play\")\n")
		write("data/lang/en.csv", "Key,Value,Context\nmenu.play\n")

		err := run()
		Expect(err).To(HaveOccurred())
		Expect(localise.IsKind(err, localise.KindLocaleRow)).To(BeTrue())
		_, statErr := os.Stat(filepath.Join(dir, "data", "lang", "es.csv"))
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})
})

var _ = Describe("Tree fixture", func() {
	It("should build a config rooted in the tree", func() {
		tree := test.NewTree()
		cfg := tree.Config([]string{"en"}, `(?P<key>\w+)`)
		Expect(cfg.SourceDir).To(Equal("/project/src"))
		Expect(cfg.TargetDir).To(Equal("/project/lang"))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should decode rendered tables", func() {
		data, err := localise.RenderLocale(localise.Record{"k": "a, b"})
		Expect(err).NotTo(HaveOccurred())
		rows, err := test.Rows(string(data))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal([][]string{{"Key", "Value", "Context"}, {"k", "a, b", ""}}))
	})
})
