package scanner_test

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/kwnlp/wpsql2csv/internal/parser"
	"github.com/kwnlp/wpsql2csv/internal/parser/scanner"
)

func collect(t *testing.T, s *scanner.Scanner) []string {
	t.Helper()
	var spans []string
	for {
		span, err := s.Next()
		if errors.Is(err, io.EOF) {
			return spans
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		spans = append(spans, span)
	}
}

const pageDump = "-- MySQL dump 10.17  Distrib 10.3.17-MariaDB\n" +
	"--\n" +
	"DROP TABLE IF EXISTS `page`;\n" +
	"/*!40101 SET @saved_cs_client = @@character_set_client */;\n" +
	"CREATE TABLE `page` (\n" +
	"  `page_id` int(8) unsigned NOT NULL AUTO_INCREMENT\n" +
	") ENGINE=InnoDB;\n" +
	"INSERT INTO `page` VALUES (10,0,'AccessibleComputing','',1,0,0.33,'20200903','20200903',963,111,'wikitext',NULL),(12,0,'Anarchism','',0,0,0.78,'20200920','20200920',974,94,'wikitext',NULL);\n" +
	"INSERT INTO `page` VALUES (13,0,'Albedo','',0,0,0.04,'20200907','20200907',985,66,'wikitext',NULL);\n"

func TestScanner_TupleSpans(t *testing.T) {
	s := scanner.New(strings.NewReader(pageDump), "page")
	spans := collect(t, s)

	want := []string{
		"10,0,'AccessibleComputing','',1,0,0.33,'20200903','20200903',963,111,'wikitext',NULL",
		"12,0,'Anarchism','',0,0,0.78,'20200920','20200920',974,94,'wikitext',NULL",
		"13,0,'Albedo','',0,0,0.04,'20200907','20200907',985,66,'wikitext',NULL",
	}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d: %q", len(spans), len(want), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d:\n got  %q\n want %q", i, spans[i], want[i])
		}
	}

	if s.Statements() != 2 {
		t.Errorf("Statements() = %d, want 2", s.Statements())
	}
	if s.Tuples() != 3 {
		t.Errorf("Tuples() = %d, want 3", s.Tuples())
	}
}

func TestScanner_QuotedDelimitersDoNotSplitTuples(t *testing.T) {
	dump := `INSERT INTO ` + "`category`" + ` VALUES (1,'a),(b',2,3,4),(2,'comma, paren ) semi ; quote \'',5,6,7);` + "\n"
	s := scanner.New(strings.NewReader(dump), "category")
	spans := collect(t, s)

	want := []string{
		`1,'a),(b',2,3,4`,
		`2,'comma, paren ) semi ; quote \'',5,6,7`,
	}
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2: %q", len(spans), spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d:\n got  %q\n want %q", i, spans[i], want[i])
		}
	}
}

func TestScanner_SkipsOtherTables(t *testing.T) {
	dump := "INSERT INTO `pagelinks` VALUES (9773,0,'!',0),(15154,0,'!; (tricky)',0);\n" +
		"INSERT INTO `category` VALUES (1,'Futurama',87,1,0);\n" +
		"INSERT INTO `pagelinks` VALUES (9774,0,'!!',0);\n"

	s := scanner.New(strings.NewReader(dump), "category")
	spans := collect(t, s)

	if len(spans) != 1 || spans[0] != "1,'Futurama',87,1,0" {
		t.Fatalf("got %q, want the single category tuple", spans)
	}
	if s.Statements() != 1 {
		t.Errorf("Statements() = %d, want 1", s.Statements())
	}
}

func TestScanner_ColumnListBeforeValues(t *testing.T) {
	dump := "INSERT INTO `category` (`cat_id`,`cat_title`,`cat_pages`,`cat_subcats`,`cat_files`) VALUES (1,'Futurama',87,1,0);\n"
	s := scanner.New(strings.NewReader(dump), "category")
	spans := collect(t, s)

	if len(spans) != 1 || spans[0] != "1,'Futurama',87,1,0" {
		t.Fatalf("got %q, want the single tuple", spans)
	}
}

func TestScanner_NoInsertStatements(t *testing.T) {
	dump := "-- just a comment\nDROP TABLE IF EXISTS `page`;\n"
	s := scanner.New(strings.NewReader(dump), "page")
	if spans := collect(t, s); len(spans) != 0 {
		t.Fatalf("got %q, want none", spans)
	}
}

func TestScanner_TruncatedTuple(t *testing.T) {
	dump := "INSERT INTO `category` VALUES (1,'Futur"
	s := scanner.New(strings.NewReader(dump), "category")

	_, err := s.Next()
	var malformed *parser.MalformedTupleError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedTupleError, got %v", err)
	}
}

// Processing N tuples must never require memory proportional to N, only
// to the single largest tuple.
func TestScanner_BufferBoundedByLargestTuple(t *testing.T) {
	const tupleCount = 5000

	var b strings.Builder
	b.WriteString("INSERT INTO `category` VALUES ")
	largest := 0
	for i := 0; i < tupleCount; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		span := fmt.Sprintf("%d,'Category_%d',%d,0,0", i, i, i%97)
		if len(span) > largest {
			largest = len(span)
		}
		b.WriteByte('(')
		b.WriteString(span)
		b.WriteByte(')')
	}
	b.WriteString(";\n")

	s := scanner.New(strings.NewReader(b.String()), "category")
	spans := 0
	for {
		_, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		spans++
	}

	if spans != tupleCount {
		t.Fatalf("got %d tuples, want %d", spans, tupleCount)
	}
	if s.MaxTupleBytes() != largest {
		t.Errorf("MaxTupleBytes() = %d, want %d (largest single tuple)", s.MaxTupleBytes(), largest)
	}
	if s.MaxTupleBytes() >= b.Len()/100 {
		t.Errorf("peak buffer %d is proportional to input size %d", s.MaxTupleBytes(), b.Len())
	}
}
