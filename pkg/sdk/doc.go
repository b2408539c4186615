// Package hadithsearch embeds the hadith search pipeline in a Go program.
//
// The client answers English queries over Sahih al-Bukhari and Sahih Muslim
// by fusing BM25 keyword retrieval and dense vector retrieval with
// Reciprocal Rank Fusion, then reranking the fused candidates with a
// cross-encoder. Results are cached by normalized query.
//
// # In-process indexes over a corpus file
//
//	client, err := hadithsearch.New(ctx,
//	    hadithsearch.WithCorpusFile("data/processed/hadiths.json"),
//	    hadithsearch.WithEmbeddingEndpoint("http://localhost:8080/v1", "", "BAAI/bge-base-en-v1.5"),
//	    hadithsearch.WithRerankEndpoint("http://localhost:8081", "BAAI/bge-reranker-base"),
//	)
//	defer client.Close()
//	res, _ := client.Search(ctx, "rafa yadain", hadithsearch.WithTopK(5))
//
// # Pre-built Redis index
//
//	client, err := hadithsearch.New(ctx,
//	    hadithsearch.WithRedis("localhost:6379", ""),
//	    hadithsearch.WithEmbedder(myEmbedder),
//	    hadithsearch.WithReranker(myReranker),
//	)
package hadithsearch
